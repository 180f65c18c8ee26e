package mongodb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/nguyentranbao-ct/merch-api/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepo struct {
	baseRepo[models.Order]
	products baseRepo[models.Product]
}

func NewOrderRepository(db *DB) repo.OrderRepository {
	return &orderRepo{
		baseRepo: newBaseRepo[models.Order](db.Database),
		products: newBaseRepo[models.Product](db.Database),
	}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	return r.Insert(ctx, order)
}

func (r *orderRepo) ListByUniversity(ctx context.Context, universityID string) ([]*models.Order, error) {
	orders, err := r.Find(ctx,
		bson.M{"university_id": universityID},
		options.Find().SetSort(bson.D{{Key: "order_date", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := util.Uniq(util.ConvertList(orders, func(o *models.Order) string { return o.ProductID }))
	products, err := r.products.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "price": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("find order products: %w", err)
	}
	byID := make(map[string]*models.ProductSummary, len(products))
	for _, p := range products {
		byID[p.ID] = p.Summary()
	}
	for _, o := range orders {
		o.Product = byID[o.ProductID]
	}
	return orders, nil
}

func topUniversitiesPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         "$university_id",
			"total_sales": bson.M{"$sum": "$amount"},
			"order_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_sales", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         models.University{}.CollectionName(),
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "university",
		}}},
		{{Key: "$unwind", Value: "$university"}},
		{{Key: "$project", Value: bson.M{
			"total_sales": 1,
			"order_count": 1,
			"name":        "$university.name",
			"location":    "$university.location",
		}}},
	}
}

func (r *orderRepo) TopUniversities(ctx context.Context, limit int) ([]*models.UniversitySales, error) {
	rows := []*models.UniversitySales{}
	if err := r.Aggregate(ctx, topUniversitiesPipeline(limit), &rows); err != nil {
		return nil, fmt.Errorf("top universities: %w", err)
	}
	return rows, nil
}
