package sqldb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/uptrace/bun"
)

type orderRepo struct {
	db bun.IDB
}

func NewOrderRepository(db bun.IDB) repo.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	if _, err := r.db.NewInsert().Model(order).Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *orderRepo) ListByUniversity(ctx context.Context, universityID string) ([]*models.Order, error) {
	orders := []*models.Order{}
	err := r.db.NewSelect().
		Model(&orders).
		Relation("Product").
		Where("o.university_id = ?", universityID).
		OrderExpr("o.order_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepo) TopUniversities(ctx context.Context, limit int) ([]*models.UniversitySales, error) {
	rows := []*models.UniversitySales{}
	err := r.db.NewSelect().
		TableExpr("orders AS o").
		Join("JOIN universities AS u ON u.id = o.university_id").
		ColumnExpr("o.university_id AS university_id").
		ColumnExpr("u.name AS name").
		ColumnExpr("u.location AS location").
		ColumnExpr("SUM(o.amount) AS total_sales").
		ColumnExpr("COUNT(o.id) AS order_count").
		GroupExpr("o.university_id, u.name, u.location").
		OrderExpr("total_sales DESC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("select top universities: %w", err)
	}
	return rows, nil
}
