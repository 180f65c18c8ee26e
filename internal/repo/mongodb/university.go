package mongodb

import (
	"context"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type universityRepo struct {
	baseRepo[models.University]
}

func NewUniversityRepository(db *DB) repo.UniversityRepository {
	return &universityRepo{baseRepo: newBaseRepo[models.University](db.Database)}
}

func (r *universityRepo) ListActive(ctx context.Context) ([]*models.University, error) {
	return r.Find(ctx, bson.M{"is_active": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *universityRepo) GetByID(ctx context.Context, id string) (*models.University, error) {
	return r.FindOne(ctx, bson.M{"_id": id})
}

func (r *universityRepo) GetByName(ctx context.Context, name string) (*models.University, error) {
	return r.FindOne(ctx, bson.M{"name": name})
}

func (r *universityRepo) Create(ctx context.Context, university *models.University) error {
	return r.Insert(ctx, university)
}

func (r *universityRepo) Update(ctx context.Context, university *models.University) error {
	return r.Replace(ctx, bson.M{"_id": university.ID}, university)
}
