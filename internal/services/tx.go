package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// withTx runs fn inside a transaction and commits when fn returns nil.
// fn must only use tx: the sqlite pool holds a single connection.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return WrapError(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return WrapError(tx.Commit(), "commit")
}

func exists(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (bool, error) {
	var found bool
	err := sqlx.GetContext(ctx, q, &found, q.Rebind(`SELECT EXISTS(`+query+`)`), args...)
	return found, err
}

func now() time.Time {
	return time.Now().UTC()
}

// Today is the calendar day (server local time) used to deduplicate views.
func Today(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
