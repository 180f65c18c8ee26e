package sqldb

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/uptrace/bun"
)

var sortColumns = map[models.SortField]string{
	models.SortByName:      "p.name",
	models.SortByPrice:     "p.price",
	models.SortByCreatedAt: "p.created_at",
	models.SortByCategory:  "p.category",
}

type productRepo struct {
	db bun.IDB
}

func NewProductRepository(db bun.IDB) repo.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FetchPage(ctx context.Context, spec models.FetchSpec) ([]*models.Product, int64, error) {
	products := make([]*models.Product, 0, spec.Limit)
	q := r.db.NewSelect().
		Model(&products).
		Relation("University")

	if spec.ActiveOnly {
		q = q.Where("p.is_active = ?", true)
	}
	if spec.Search != "" {
		pattern := likePattern(spec.Search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where(`LOWER(p.name) LIKE ? ESCAPE '\'`, pattern).
				WhereOr(`LOWER(p.description) LIKE ? ESCAPE '\'`, pattern)
		})
	}
	if spec.Category != "" {
		q = q.Where("p.category = ?", spec.Category)
	}

	column, ok := sortColumns[spec.SortBy]
	if !ok {
		column = sortColumns[models.SortByCreatedAt]
	}
	direction := "ASC"
	if spec.SortDesc {
		direction = "DESC"
	}
	q = q.
		OrderExpr("? ?", bun.Ident(column), bun.Safe(direction)).
		OrderExpr("? ?", bun.Ident("p.id"), bun.Safe(direction)).
		Offset(spec.Offset).
		Limit(spec.Limit)

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("select products: %w", err)
	}
	return products, int64(total), nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product := new(models.Product)
	err := r.db.NewSelect().
		Model(product).
		Relation("University").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	if _, err := r.db.NewInsert().Model(product).Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	res, err := r.db.NewUpdate().
		Model(product).
		ExcludeColumn("id", "created_at", "deleted_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().
		Model(&models.Product{ID: id}).
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.NewSelect().
		Model((*models.Product)(nil)).
		ColumnExpr("DISTINCT p.category").
		Where("p.is_active = ?", true).
		OrderExpr("p.category ASC").
		Scan(ctx, &categories)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern; callers compare it
// against LOWER(column).
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
