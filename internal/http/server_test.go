package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"kaizen-backend-go/internal/config"
	"kaizen-backend-go/internal/db"
	"kaizen-backend-go/internal/migrations"
	"kaizen-backend-go/internal/services"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	Server     *Server
	Handler    http.Handler
	Factory    int64
	Department int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "kaizen.db") +
		"?_txlock=immediate"
	conn, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Apply(conn, db.DriverSQLite))
	_, err = services.SeedReferenceData(context.Background(), conn)
	require.NoError(t, err)

	cfg := config.Config{
		DatabaseDriver:   db.DriverSQLite,
		JWTSecret:        "test-secret",
		JWTIssuer:        "kaizen-test",
		AccessTTLSeconds: 3600,
		UploadDir:        filepath.Join(dir, "uploads"),
		MaxUploadBytes:   1 << 20,
	}
	server := NewServer(conn, cfg)
	env := &testEnv{Server: server, Handler: server.Router()}
	require.NoError(t, conn.Get(&env.Factory, `SELECT id FROM factories WHERE name = 'Head Plant'`))
	require.NoError(t, conn.Get(&env.Department, `SELECT id FROM departments WHERE name = 'Assembly'`))
	return env
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.Handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.do(t, req)
}

func (e *testEnv) register(t *testing.T, username string) int64 {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/auth/register", RegisterRequest{
		Username: username, Password: "pw", Email: username + "@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp RegisterResponse
	decode(t, rec, &resp)
	return resp.ID
}

type multipartImage struct {
	Name string
	Body string
}

func multipartCase(t *testing.T, fields map[string]string, images ...multipartImage) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, image := range images {
		part, err := writer.CreateFormFile("images", image.Name)
		require.NoError(t, err)
		_, err = part.Write([]byte(image.Body))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (e *testEnv) createCase(t *testing.T, userID int64, title string, images ...multipartImage) CaseDTO {
	t.Helper()
	rec := e.postCase(t, map[string]string{
		"title":        title,
		"description":  "Description of " + title,
		"factoryId":    fmt.Sprint(e.Factory),
		"departmentId": fmt.Sprint(e.Department),
		"userId":       fmt.Sprint(userID),
	}, images...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view CaseDTO
	decode(t, rec, &view)
	return view
}

func (e *testEnv) postCase(t *testing.T, fields map[string]string, images ...multipartImage) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartCase(t, fields, images...)
	req := httptest.NewRequest(http.MethodPost, "/api/cases", body)
	req.Header.Set("Content-Type", contentType)
	return e.do(t, req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decode(t, rec, &resp)
	return resp.Error
}

func formRequest(method, target string, values map[string]string) *http.Request {
	form := make([]string, 0, len(values))
	for key, value := range values {
		form = append(form, key+"="+value)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(strings.Join(form, "&")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
