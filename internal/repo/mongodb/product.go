package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/nguyentranbao-ct/merch-api/pkg/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var sortFields = map[models.SortField]string{
	models.SortByName:      "name",
	models.SortByPrice:     "price",
	models.SortByCreatedAt: "created_at",
	models.SortByCategory:  "category",
}

var notDeleted = bson.M{"$exists": false}

type productRepo struct {
	baseRepo[models.Product]
	universities baseRepo[models.University]
}

func NewProductRepository(db *DB) repo.ProductRepository {
	return &productRepo{
		baseRepo:     newBaseRepo[models.Product](db.Database),
		universities: newBaseRepo[models.University](db.Database),
	}
}

func productFilter(spec models.FetchSpec) bson.M {
	filter := bson.M{"deleted_at": notDeleted}
	if spec.ActiveOnly {
		filter["is_active"] = true
	}
	if spec.Search != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(spec.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	if spec.Category != "" {
		filter["category"] = spec.Category
	}
	return filter
}

func productSort(spec models.FetchSpec) bson.D {
	field, ok := sortFields[spec.SortBy]
	if !ok {
		field = sortFields[models.SortByCreatedAt]
	}
	dir := 1
	if spec.SortDesc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}

func (r *productRepo) FetchPage(ctx context.Context, spec models.FetchSpec) ([]*models.Product, int64, error) {
	page, err := r.PaginateWithTotal(ctx, productFilter(spec), int64(spec.Limit), int64(spec.Offset),
		options.Find().SetSort(productSort(spec)))
	if err != nil {
		return nil, 0, fmt.Errorf("paginate products: %w", err)
	}
	if err := r.attachUniversities(ctx, page.Data); err != nil {
		return nil, 0, err
	}
	return page.Data, page.Total, nil
}

func (r *productRepo) attachUniversities(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := util.Uniq(util.ConvertList(products, func(p *models.Product) string { return p.UniversityID }))
	docs, err := r.universities.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("find universities: %w", err)
	}
	byID := make(map[string]*models.UniversitySummary, len(docs))
	for _, d := range docs {
		byID[d.ID] = d.Summary()
	}
	for _, p := range products {
		p.University = byID[p.UniversityID]
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := r.FindOne(ctx, bson.M{"_id": id, "deleted_at": notDeleted})
	if err != nil {
		return nil, err
	}
	if err := r.attachUniversities(ctx, []*models.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	return r.Insert(ctx, product)
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	return r.Replace(ctx, bson.M{"_id": product.ID, "deleted_at": notDeleted}, product)
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.UpdateOne(ctx,
		bson.M{"_id": id, "deleted_at": notDeleted},
		bson.M{"$set": bson.M{"deleted_at": time.Now()}},
	)
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.M{"is_active": true, "deleted_at": notDeleted})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
