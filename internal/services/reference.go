package services

import (
	"context"

	"kaizen-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

func ListFactories(ctx context.Context, db *sqlx.DB) ([]models.Factory, error) {
	items := []models.Factory{}
	err := sqlx.SelectContext(ctx, db, &items, `SELECT id, name FROM factories ORDER BY id`)
	return items, err
}

// ListDepartments returns every department, or only those of factoryID when set.
func ListDepartments(ctx context.Context, db *sqlx.DB, factoryID *int64) ([]models.Department, error) {
	items := []models.Department{}
	if factoryID != nil {
		err := sqlx.SelectContext(ctx, db, &items, db.Rebind(`SELECT id, factory_id, name FROM departments WHERE factory_id = ? ORDER BY id`), *factoryID)
		return items, err
	}
	err := sqlx.SelectContext(ctx, db, &items, `SELECT id, factory_id, name FROM departments ORDER BY id`)
	return items, err
}

func GetFactory(ctx context.Context, q sqlx.ExtContext, id int64) (models.Factory, error) {
	var factory models.Factory
	err := sqlx.GetContext(ctx, q, &factory, q.Rebind(`SELECT id, name FROM factories WHERE id = ?`), id)
	if err != nil {
		return models.Factory{}, notFoundOr(err, "Factory not found")
	}
	return factory, nil
}

func GetDepartment(ctx context.Context, q sqlx.ExtContext, id int64) (models.Department, error) {
	var department models.Department
	err := sqlx.GetContext(ctx, q, &department, q.Rebind(`SELECT id, factory_id, name FROM departments WHERE id = ?`), id)
	if err != nil {
		return models.Department{}, notFoundOr(err, "Department not found")
	}
	return department, nil
}

type seedFactory struct {
	Name        string
	Departments []string
}

var defaultReferenceData = []seedFactory{
	{Name: "Head Plant", Departments: []string{"Assembly", "Quality Control", "Maintenance"}},
	{Name: "East Plant", Departments: []string{"Machining", "Painting", "Logistics"}},
	{Name: "West Plant", Departments: []string{"Molding", "Inspection"}},
}

// SeedReferenceData inserts the default factories and departments when the
// factories table is empty. Running it twice is a no-op.
func SeedReferenceData(ctx context.Context, db *sqlx.DB) (bool, error) {
	seeded := false
	err := withTx(ctx, db, func(tx *sqlx.Tx) error {
		var count int
		if err := sqlx.GetContext(ctx, tx, &count, `SELECT count(*) FROM factories`); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, factory := range defaultReferenceData {
			var factoryID int64
			if err := sqlx.GetContext(ctx, tx, &factoryID, tx.Rebind(`INSERT INTO factories (name) VALUES (?) RETURNING id`), factory.Name); err != nil {
				return WrapError(err, "insert factory")
			}
			for _, name := range factory.Departments {
				if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO departments (factory_id, name) VALUES (?, ?)`), factoryID, name); err != nil {
					return WrapError(err, "insert department")
				}
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}
