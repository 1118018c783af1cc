package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kaizen-backend-go/internal/db"
	"kaizen-backend-go/internal/migrations"
	"kaizen-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	DB         *sqlx.DB
	Store      UploadStore
	Factory    int64
	Department int64
	Other      int64
	OtherDept  int64
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "kaizen.db") +
		"?_txlock=immediate"
	conn, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Apply(conn, db.DriverSQLite))
	return conn
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := newTestDB(t)
	seeded, err := SeedReferenceData(context.Background(), conn)
	require.NoError(t, err)
	require.True(t, seeded)
	f := fixture{DB: conn, Store: UploadStore{Dir: filepath.Join(t.TempDir(), "uploads")}}
	require.NoError(t, conn.Get(&f.Factory, `SELECT id FROM factories WHERE name = 'Head Plant'`))
	require.NoError(t, conn.Get(&f.Department, `SELECT id FROM departments WHERE name = 'Assembly'`))
	require.NoError(t, conn.Get(&f.Other, `SELECT id FROM factories WHERE name = 'East Plant'`))
	require.NoError(t, conn.Get(&f.OtherDept, `SELECT id FROM departments WHERE name = 'Machining'`))
	return f
}

// insertUser bypasses password hashing to keep tests fast.
func insertUser(t *testing.T, conn *sqlx.DB, username string) int64 {
	t.Helper()
	var id int64
	err := conn.Get(&id, `INSERT INTO users (username, password_hash, email, is_admin, created_at) VALUES (?, 'x', ?, 0, ?) RETURNING id`,
		username, username+"@example.com", time.Now().UTC())
	require.NoError(t, err)
	return id
}

func (f fixture) createCase(t *testing.T, userID int64, title string, images ...string) CaseView {
	t.Helper()
	return f.createCaseIn(t, userID, f.Factory, f.Department, title, images...)
}

func (f fixture) createCaseIn(t *testing.T, userID, factoryID, departmentID int64, title string, images ...string) CaseView {
	t.Helper()
	view, err := CreateCase(context.Background(), f.DB, f.Store, CreateCaseInput{
		Title:        title,
		Description:  "Description of " + title,
		FactoryID:    factoryID,
		DepartmentID: departmentID,
		UserID:       userID,
		Images:       uploads(images...),
	})
	require.NoError(t, err)
	return view
}

func uploads(contents ...string) []ImageUpload {
	items := make([]ImageUpload, 0, len(contents))
	for i, content := range contents {
		body := content
		items = append(items, ImageUpload{
			Filename: fmt.Sprintf("photo-%02d.png", i),
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader(body)), nil
			},
		})
	}
	return items
}

func caseCounters(t *testing.T, conn *sqlx.DB, caseID int64) (views, likes, comments int) {
	t.Helper()
	row := struct {
		Views    int `db:"view_count"`
		Likes    int `db:"like_count"`
		Comments int `db:"comment_count"`
	}{}
	require.NoError(t, conn.Get(&row, `SELECT view_count, like_count, comment_count FROM improvement_cases WHERE id = ?`, caseID))
	return row.Views, row.Likes, row.Comments
}

func countRows(t *testing.T, conn *sqlx.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, conn.Get(&n, query, args...))
	return n
}

func caseImageRows(t *testing.T, conn *sqlx.DB, caseID int64) []models.CaseImage {
	t.Helper()
	rows := []models.CaseImage{}
	require.NoError(t, conn.Select(&rows, `SELECT id, case_id, image_path, image_order, created_at
FROM case_images WHERE case_id = ? ORDER BY image_order ASC`, caseID))
	return rows
}
