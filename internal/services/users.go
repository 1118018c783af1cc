package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"kaizen-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

const MsgUsernameTaken = "Username already exists"

const userColumns = `id, username, password_hash, email, is_admin, created_at`

func RegisterUser(ctx context.Context, db *sqlx.DB, tokens TokenService, username, password, email string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return models.User{}, ErrBadRequest("Username and password are required")
	}
	taken, err := exists(ctx, db, `SELECT 1 FROM users WHERE username = ?`, username)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrBadRequest(MsgUsernameTaken)
	}
	hash, err := tokens.HashPassword(password)
	if err != nil {
		return models.User{}, WrapError(err, "hash password")
	}
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        nullIfEmpty(email),
		CreatedAt:    now(),
	}
	err = sqlx.GetContext(ctx, db, &user.ID, db.Rebind(`
INSERT INTO users (username, password_hash, email, is_admin, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`), user.Username, user.PasswordHash, user.Email, false, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrBadRequest(MsgUsernameTaken)
		}
		return models.User{}, WrapError(err, "insert user")
	}
	return user, nil
}

func AuthenticateUser(ctx context.Context, db *sqlx.DB, tokens TokenService, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrUnauthorized("Invalid credentials")
	}
	var user models.User
	err := sqlx.GetContext(ctx, db, &user, db.Rebind(`SELECT `+userColumns+` FROM users WHERE username = ?`), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUnauthorized("Invalid credentials")
		}
		return models.User{}, WrapError(err, "load user")
	}
	if !tokens.VerifyPassword(password, user.PasswordHash) {
		return models.User{}, ErrUnauthorized("Invalid credentials")
	}
	return user, nil
}

func GetUser(ctx context.Context, db sqlx.ExtContext, userID int64) (models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, db, &user, db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), userID)
	if err != nil {
		return models.User{}, notFoundOr(err, "User not found")
	}
	return user, nil
}

func nullIfEmpty(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
