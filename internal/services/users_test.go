package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() TokenService {
	return TokenService{Secret: []byte("test-secret"), Issuer: "kaizen-test", AccessTTL: time.Hour}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()
	tokens := testTokens()

	user, err := RegisterUser(ctx, conn, tokens, " alice ", "pw", "a@x.com")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, user.Email)
	assert.Equal(t, "a@x.com", *user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "pw", user.PasswordHash)

	loaded, err := AuthenticateUser(ctx, conn, tokens, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	assert.Equal(t, "a@x.com", *loaded.Email)

	_, err = AuthenticateUser(ctx, conn, tokens, "alice", "wrong")
	assert.True(t, IsStatus(err, 401))
	assert.EqualError(t, err, "Invalid credentials")

	_, err = AuthenticateUser(ctx, conn, tokens, "nobody", "pw")
	assert.True(t, IsStatus(err, 401))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	_, err := RegisterUser(ctx, conn, testTokens(), "alice", "pw", "")
	require.NoError(t, err)
	_, err = RegisterUser(ctx, conn, testTokens(), "alice", "other", "b@x.com")
	assert.True(t, IsStatus(err, 400))
	assert.EqualError(t, err, MsgUsernameTaken)

	var n int
	require.NoError(t, conn.Get(&n, `SELECT count(*) FROM users`))
	assert.Equal(t, 1, n)
}

func TestRegisterRequiresCredentials(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	_, err := RegisterUser(ctx, conn, testTokens(), "  ", "pw", "")
	assert.True(t, IsStatus(err, 400))
	_, err = RegisterUser(ctx, conn, testTokens(), "bob", "", "")
	assert.True(t, IsStatus(err, 400))
}

func TestRegisterWithoutEmailStoresNull(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	user, err := RegisterUser(ctx, conn, testTokens(), "carol", "pw", "   ")
	require.NoError(t, err)
	assert.Nil(t, user.Email)

	loaded, err := GetUser(ctx, conn, user.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Email)

	_, err = GetUser(ctx, conn, user.ID+100)
	assert.EqualError(t, err, "User not found")
}
