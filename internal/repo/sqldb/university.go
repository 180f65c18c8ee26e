package sqldb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/uptrace/bun"
)

type universityRepo struct {
	db bun.IDB
}

func NewUniversityRepository(db bun.IDB) repo.UniversityRepository {
	return &universityRepo{db: db}
}

func (r *universityRepo) ListActive(ctx context.Context) ([]*models.University, error) {
	var universities []*models.University
	err := r.db.NewSelect().
		Model(&universities).
		Where("u.is_active = ?", true).
		OrderExpr("u.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select universities: %w", err)
	}
	return universities, nil
}

func (r *universityRepo) GetByID(ctx context.Context, id string) (*models.University, error) {
	return r.getBy(ctx, "u.id = ?", id)
}

func (r *universityRepo) GetByName(ctx context.Context, name string) (*models.University, error) {
	return r.getBy(ctx, "u.name = ?", name)
}

func (r *universityRepo) getBy(ctx context.Context, where string, arg any) (*models.University, error) {
	university := new(models.University)
	if err := r.db.NewSelect().Model(university).Where(where, arg).Scan(ctx); err != nil {
		return nil, mapError(err)
	}
	return university, nil
}

func (r *universityRepo) Create(ctx context.Context, university *models.University) error {
	if _, err := r.db.NewInsert().Model(university).Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *universityRepo) Update(ctx context.Context, university *models.University) error {
	res, err := r.db.NewUpdate().
		Model(university).
		ExcludeColumn("id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(res)
}
