package mongodb

import (
	"context"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
)

type userRepo struct {
	baseRepo[models.User]
}

func NewUserRepository(db *DB) repo.UserRepository {
	return &userRepo{baseRepo: newBaseRepo[models.User](db.Database)}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.Insert(ctx, user)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindOne(ctx, bson.M{"username": username})
}
