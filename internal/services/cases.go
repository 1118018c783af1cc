package services

import (
	"context"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"kaizen-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

const (
	MaxImagesPerCase = 10
	MaxTitleLength   = 200
)

const (
	SortLikes = "likes"
	SortViews = "views"
)

// CaseView is the flattened projection of a case: scalar fields plus the
// factory, department and author names and the ordered image paths.
type CaseView struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	Description    string    `db:"description"`
	FactoryID      int64     `db:"factory_id"`
	FactoryName    string    `db:"factory_name"`
	DepartmentID   int64     `db:"department_id"`
	DepartmentName string    `db:"department_name"`
	UserID         int64     `db:"user_id"`
	Username       string    `db:"username"`
	ViewCount      int       `db:"view_count"`
	LikeCount      int       `db:"like_count"`
	CommentCount   int       `db:"comment_count"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	Images         []string  `db:"-"`
}

const caseViewSelect = `
SELECT c.id, c.title, c.description,
       c.factory_id, f.name AS factory_name,
       c.department_id, d.name AS department_name,
       c.user_id, u.username,
       c.view_count, c.like_count, c.comment_count,
       c.created_at, c.updated_at
FROM improvement_cases c
JOIN factories f ON f.id = c.factory_id
JOIN departments d ON d.id = c.department_id
JOIN users u ON u.id = c.user_id
`

type CaseFilter struct {
	FactoryID    *int64
	DepartmentID *int64
	Keyword      string
	SortBy       string
}

// ImageUpload is one submitted image; Open is called at most once.
type ImageUpload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type CreateCaseInput struct {
	Title        string
	Description  string
	FactoryID    int64
	DepartmentID int64
	UserID       int64
	Images       []ImageUpload
}

// CaseUpdate carries the optional fields of a partial update; nil leaves the
// stored value unchanged.
type CaseUpdate struct {
	Title        *string
	Description  *string
	FactoryID    *int64
	DepartmentID *int64
}

// ListCases applies the keyword filter when present, otherwise the
// factory/department filters, then exactly one sort key. The keyword is
// matched as a literal substring, whitespace included.
func ListCases(ctx context.Context, db *sqlx.DB, filter CaseFilter) ([]CaseView, error) {
	where := []string{}
	args := []interface{}{}
	if filter.Keyword != "" {
		pattern := "%" + escapeLike(filter.Keyword) + "%"
		where = append(where, `(c.title LIKE ? ESCAPE '\' OR c.description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	} else {
		if filter.FactoryID != nil {
			where = append(where, "c.factory_id = ?")
			args = append(args, *filter.FactoryID)
		}
		if filter.DepartmentID != nil {
			where = append(where, "c.department_id = ?")
			args = append(args, *filter.DepartmentID)
		}
	}
	query := caseViewSelect
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "ORDER BY " + orderClause(filter.SortBy)

	items := []CaseView{}
	if err := sqlx.SelectContext(ctx, db, &items, db.Rebind(query), args...); err != nil {
		return nil, WrapError(err, "list cases")
	}
	if err := attachImages(ctx, db, items); err != nil {
		return nil, err
	}
	return items, nil
}

func orderClause(sortBy string) string {
	switch sortBy {
	case SortLikes:
		return "c.like_count DESC, c.id DESC"
	case SortViews:
		return "c.view_count DESC, c.id DESC"
	default:
		return "c.created_at DESC, c.id DESC"
	}
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

func GetCase(ctx context.Context, q sqlx.ExtContext, id int64) (CaseView, error) {
	var item CaseView
	if err := sqlx.GetContext(ctx, q, &item, q.Rebind(caseViewSelect+"WHERE c.id = ?"), id); err != nil {
		return CaseView{}, notFoundOr(err, "Case not found")
	}
	items := []CaseView{item}
	if err := attachImages(ctx, q, items); err != nil {
		return CaseView{}, err
	}
	return items[0], nil
}

// attachImages loads image paths for all items in one query, ordered by
// image_order.
func attachImages(ctx context.Context, q sqlx.ExtContext, items []CaseView) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	for i := range items {
		items[i].Images = []string{}
		ids = append(ids, items[i].ID)
	}
	query, args, err := sqlx.In(`
SELECT id, case_id, image_path, image_order, created_at
FROM case_images
WHERE case_id IN (?)
ORDER BY case_id, image_order ASC
`, ids)
	if err != nil {
		return err
	}
	rows := []models.CaseImage{}
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return WrapError(err, "load images")
	}
	byCase := make(map[int64][]string, len(items))
	for _, row := range rows {
		byCase[row.CaseID] = append(byCase[row.CaseID], row.ImagePath)
	}
	for i := range items {
		if paths, ok := byCase[items[i].ID]; ok {
			items[i].Images = paths
		}
	}
	return nil
}

func validateCaseText(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return ErrBadRequest("Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrBadRequest("Title must be at most 200 characters")
	}
	if strings.TrimSpace(description) == "" {
		return ErrBadRequest("Description is required")
	}
	return nil
}

// CreateCase stores up to MaxImagesPerCase images (extras are dropped) with
// image_order equal to their input position, then inserts the case and its
// image rows in one transaction. Written files are removed on failure.
func CreateCase(ctx context.Context, db *sqlx.DB, store UploadStore, input CreateCaseInput) (CaseView, error) {
	if err := validateCaseText(input.Title, input.Description); err != nil {
		return CaseView{}, err
	}
	if _, err := GetFactory(ctx, db, input.FactoryID); err != nil {
		return CaseView{}, err
	}
	if _, err := GetDepartment(ctx, db, input.DepartmentID); err != nil {
		return CaseView{}, err
	}
	if _, err := GetUser(ctx, db, input.UserID); err != nil {
		return CaseView{}, err
	}

	images := input.Images
	if len(images) > MaxImagesPerCase {
		images = images[:MaxImagesPerCase]
	}
	paths := make([]string, 0, len(images))
	cleanup := func() {
		for _, path := range paths {
			store.Remove(path)
		}
	}
	for _, image := range images {
		path, err := saveImage(store, image)
		if err != nil {
			cleanup()
			return CaseView{}, err
		}
		paths = append(paths, path)
	}

	created := now()
	var caseID int64
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := sqlx.GetContext(ctx, tx, &caseID, tx.Rebind(`
INSERT INTO improvement_cases (
  title, description, factory_id, department_id, user_id,
  view_count, like_count, comment_count, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, 0, 0, 0, ?, ?)
RETURNING id
`), input.Title, input.Description, input.FactoryID, input.DepartmentID, input.UserID, created, created); err != nil {
			return WrapError(err, "insert case")
		}
		for order, path := range paths {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO case_images (case_id, image_path, image_order, created_at)
VALUES (?, ?, ?, ?)
`), caseID, path, order, created); err != nil {
				return WrapError(err, "insert image")
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		return CaseView{}, err
	}
	return GetCase(ctx, db, caseID)
}

func saveImage(store UploadStore, image ImageUpload) (string, error) {
	body, err := image.Open()
	if err != nil {
		return "", WrapError(err, "open upload")
	}
	defer body.Close()
	return store.Save(image.Filename, body)
}

func UpdateCase(ctx context.Context, db *sqlx.DB, id int64, update CaseUpdate) (CaseView, error) {
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return CaseView{}, ErrBadRequest("Title is required")
		}
		if utf8.RuneCountInString(*update.Title) > MaxTitleLength {
			return CaseView{}, ErrBadRequest("Title must be at most 200 characters")
		}
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) == "" {
		return CaseView{}, ErrBadRequest("Description is required")
	}
	var result CaseView
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, `SELECT 1 FROM improvement_cases WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound("Case not found")
		}
		if update.FactoryID != nil {
			if _, err := GetFactory(ctx, tx, *update.FactoryID); err != nil {
				return err
			}
		}
		if update.DepartmentID != nil {
			if _, err := GetDepartment(ctx, tx, *update.DepartmentID); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
UPDATE improvement_cases
SET title = COALESCE(?, title),
    description = COALESCE(?, description),
    factory_id = COALESCE(?, factory_id),
    department_id = COALESCE(?, department_id),
    updated_at = ?
WHERE id = ?
`), update.Title, update.Description, update.FactoryID, update.DepartmentID, now(), id); err != nil {
			return WrapError(err, "update case")
		}
		result, err = GetCase(ctx, tx, id)
		return err
	})
	return result, err
}

// DeleteCase removes the case; images, likes, comments and view logs go
// with it through ON DELETE CASCADE. Image files are removed afterwards.
func DeleteCase(ctx context.Context, db *sqlx.DB, store UploadStore, id int64) error {
	paths := []string{}
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := sqlx.SelectContext(ctx, tx, &paths, tx.Rebind(`SELECT image_path FROM case_images WHERE case_id = ?`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM improvement_cases WHERE id = ?`), id)
		if err != nil {
			return WrapError(err, "delete case")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound("Case not found")
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, path := range paths {
		store.Remove(path)
	}
	return nil
}
