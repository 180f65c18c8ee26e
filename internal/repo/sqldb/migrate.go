package sqldb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/uptrace/bun"
)

// Migrate creates the tables and indexes when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model       any
		foreignKeys []string
	}{
		{model: (*models.University)(nil)},
		{model: (*models.User)(nil)},
		{
			model:       (*models.Product)(nil),
			foreignKeys: []string{`("university_id") REFERENCES "universities" ("id")`},
		},
		{
			model: (*models.Order)(nil),
			foreignKeys: []string{
				`("product_id") REFERENCES "products" ("id")`,
				`("university_id") REFERENCES "universities" ("id")`,
			},
		},
	}
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", t.model, err)
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*models.Product)(nil), "idx_products_category", []string{"category"}},
		{(*models.Product)(nil), "idx_products_university_id", []string{"university_id"}},
		{(*models.Product)(nil), "idx_products_active_created", []string{"is_active", "created_at"}},
		{(*models.Order)(nil), "idx_orders_university_id", []string{"university_id"}},
		{(*models.Order)(nil), "idx_orders_order_date", []string{"order_date"}},
	}
	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
