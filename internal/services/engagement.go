package services

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// CommentView is a comment flattened with its author's username.
type CommentView struct {
	ID        int64     `db:"id"`
	CaseID    int64     `db:"case_id"`
	Content   string    `db:"content"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

const commentViewSelect = `
SELECT cm.id, cm.case_id, cm.content, cm.user_id, u.username, cm.created_at
FROM comments cm
JOIN users u ON u.id = cm.user_id
`

// RecordView counts at most one view per (case, viewer, day). The unique
// index on view_logs decides: the counter moves only when the insert added
// a row. Unknown viewers are ignored.
func RecordView(ctx context.Context, db *sqlx.DB, caseID, userID int64, day string) (bool, error) {
	counted := false
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		found, err := exists(ctx, tx, `SELECT 1 FROM improvement_cases WHERE id = ?`, caseID)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound("Case not found")
		}
		known, err := exists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, userID)
		if err != nil || !known {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO view_logs (case_id, user_id, viewed_date, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT DO NOTHING
`), caseID, userID, day, now())
		if err != nil {
			return WrapError(err, "insert view log")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE improvement_cases SET view_count = view_count + 1 WHERE id = ?`), caseID); err != nil {
			return WrapError(err, "increment views")
		}
		counted = true
		return nil
	})
	return counted, err
}

// ToggleLike removes the user's like when present and adds it otherwise,
// returning the stored like count. The case row is locked first so toggles
// on one case serialize; the decrement is floored at zero in place.
func ToggleLike(ctx context.Context, db *sqlx.DB, caseID, userID int64) (int, error) {
	var likeCount int
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := lockCase(ctx, tx, caseID); err != nil {
			return err
		}
		known, err := exists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, userID)
		if err != nil {
			return err
		}
		if !known {
			return ErrNotFound("User not found")
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM likes WHERE case_id = ? AND user_id = ?`), caseID, userID)
		if err != nil {
			return WrapError(err, "delete like")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			if _, err := tx.ExecContext(ctx, tx.Rebind(`
UPDATE improvement_cases
SET like_count = CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END
WHERE id = ?
`), caseID); err != nil {
				return WrapError(err, "decrement likes")
			}
		} else {
			res, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO likes (case_id, user_id, created_at)
VALUES (?, ?, ?)
ON CONFLICT DO NOTHING
`), caseID, userID, now())
			if err != nil {
				return WrapError(err, "insert like")
			}
			if n, _ := res.RowsAffected(); n > 0 {
				if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE improvement_cases SET like_count = like_count + 1 WHERE id = ?`), caseID); err != nil {
					return WrapError(err, "increment likes")
				}
			}
		}
		return sqlx.GetContext(ctx, tx, &likeCount, tx.Rebind(`SELECT like_count FROM improvement_cases WHERE id = ?`), caseID)
	})
	return likeCount, err
}

// AddComment inserts the comment and recounts comment_count from the
// comments table in the same transaction.
func AddComment(ctx context.Context, db *sqlx.DB, caseID, userID int64, content string) (CommentView, error) {
	if strings.TrimSpace(content) == "" {
		return CommentView{}, ErrBadRequest("Comment content is required")
	}
	var comment CommentView
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := lockCase(ctx, tx, caseID); err != nil {
			return err
		}
		if _, err := GetUser(ctx, tx, userID); err != nil {
			return err
		}
		var commentID int64
		if err := sqlx.GetContext(ctx, tx, &commentID, tx.Rebind(`
INSERT INTO comments (case_id, user_id, content, created_at)
VALUES (?, ?, ?, ?)
RETURNING id
`), caseID, userID, content, now()); err != nil {
			return WrapError(err, "insert comment")
		}
		if err := recountComments(ctx, tx, caseID); err != nil {
			return err
		}
		return sqlx.GetContext(ctx, tx, &comment, tx.Rebind(commentViewSelect+"WHERE cm.id = ?"), commentID)
	})
	return comment, err
}

// ListComments returns the case's comments oldest first. An unknown case
// yields an empty list.
func ListComments(ctx context.Context, db *sqlx.DB, caseID int64) ([]CommentView, error) {
	items := []CommentView{}
	err := sqlx.SelectContext(ctx, db, &items, db.Rebind(commentViewSelect+`
WHERE cm.case_id = ?
ORDER BY cm.created_at ASC, cm.id ASC
`), caseID)
	return items, err
}

func recountComments(ctx context.Context, tx *sqlx.Tx, caseID int64) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
UPDATE improvement_cases
SET comment_count = (SELECT count(*) FROM comments WHERE case_id = ?)
WHERE id = ?
`), caseID, caseID)
	return WrapError(err, "recount comments")
}

// lockCase takes the case row lock for the rest of the transaction.
func lockCase(ctx context.Context, tx *sqlx.Tx, caseID int64) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE improvement_cases SET like_count = like_count WHERE id = ?`), caseID)
	if err != nil {
		return WrapError(err, "lock case")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound("Case not found")
	}
	return nil
}
