package sqldb

import (
	"context"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/uptrace/bun"
)

type userRepo struct {
	db bun.IDB
}

func NewUserRepository(db bun.IDB) repo.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "usr.id = ?", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "usr.email = ?", email)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "usr.username = ?", username)
}

func (r *userRepo) getBy(ctx context.Context, where string, arg any) (*models.User, error) {
	user := new(models.User)
	if err := r.db.NewSelect().Model(user).Where(where, arg).Scan(ctx); err != nil {
		return nil, mapError(err)
	}
	return user, nil
}
