package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

const TopViewedLimit = 10

type TopCase struct {
	ID             int64  `db:"id"`
	Title          string `db:"title"`
	ViewCount      int    `db:"view_count"`
	LikeCount      int    `db:"like_count"`
	CommentCount   int    `db:"comment_count"`
	FactoryName    string `db:"factory_name"`
	DepartmentName string `db:"department_name"`
}

type Statistics struct {
	TotalCases int64 `db:"total_cases"`
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// TopViewedThisMonth ranks cases created between the start of now's month
// and now by view count.
func TopViewedThisMonth(ctx context.Context, db *sqlx.DB, now time.Time) ([]TopCase, error) {
	items := []TopCase{}
	err := sqlx.SelectContext(ctx, db, &items, db.Rebind(`
SELECT c.id, c.title, c.view_count, c.like_count, c.comment_count,
       f.name AS factory_name, d.name AS department_name
FROM improvement_cases c
JOIN factories f ON f.id = c.factory_id
JOIN departments d ON d.id = c.department_id
WHERE c.created_at >= ? AND c.created_at <= ?
ORDER BY c.view_count DESC, c.id ASC
LIMIT ?
`), MonthStart(now).UTC(), now.UTC(), TopViewedLimit)
	if err != nil {
		return nil, WrapError(err, "top viewed")
	}
	return items, nil
}

func GetStatistics(ctx context.Context, db *sqlx.DB) (Statistics, error) {
	var stats Statistics
	err := sqlx.GetContext(ctx, db, &stats, `SELECT count(*) AS total_cases FROM improvement_cases`)
	return stats, WrapError(err, "statistics")
}
