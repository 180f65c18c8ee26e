package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// keep the baseRepo implementation in sync with IRepository interface
var _ IRepository[models.Product] = (*baseRepo[models.Product])(nil)

type IEntity interface {
	CollectionName() string
	GetID() string
}

type PaginateWithTotal[E any] struct {
	Total int64
	Data  []E
}

type IRepository[E IEntity] interface {
	Insert(ctx context.Context, entity *E) error
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*E, error)
	FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*E, error)
	Replace(ctx context.Context, filter bson.M, entity *E) error
	UpdateOne(ctx context.Context, filter bson.M, update bson.M) error
	Count(ctx context.Context, filter bson.M, opts ...*options.CountOptions) (int64, error)
	PaginateWithTotal(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) (*PaginateWithTotal[*E], error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error
}

type baseRepo[E IEntity] struct {
	coll *mongo.Collection
}

func newBaseRepo[E IEntity](db *mongo.Database) baseRepo[E] {
	var entity E
	return baseRepo[E]{
		coll: db.Collection(entity.CollectionName()),
	}
}

func (r *baseRepo[E]) Insert(ctx context.Context, entity *E) error {
	if _, err := r.coll.InsertOne(ctx, entity); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return fmt.Errorf("insert one: %w", err)
	}
	return nil
}

func (r *baseRepo[E]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*E, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	entities := []*E{}
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("cursor all: %w", err)
	}
	return entities, nil
}

func (r *baseRepo[E]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*E, error) {
	var entity E
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepo[E]) Replace(ctx context.Context, filter bson.M, entity *E) error {
	result, err := r.coll.ReplaceOne(ctx, filter, entity)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return fmt.Errorf("replace one: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *baseRepo[E]) UpdateOne(ctx context.Context, filter bson.M, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update one: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *baseRepo[E]) Count(ctx context.Context, filter bson.M, opts ...*options.CountOptions) (int64, error) {
	return r.coll.CountDocuments(ctx, filter, opts...)
}

func (r *baseRepo[E]) PaginateWithTotal(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) (*PaginateWithTotal[*E], error) {
	group, ctx := errgroup.WithContext(ctx)
	entities := []*E{}
	var total int64

	group.Go(func() error {
		opts = append(opts, options.Find().SetSkip(skip).SetLimit(limit))
		cursor, err := r.coll.Find(ctx, filter, opts...)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		if err := cursor.All(ctx, &entities); err != nil {
			return fmt.Errorf("cursor all: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		var err error
		total, err = r.coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &PaginateWithTotal[*E]{Total: total, Data: entities}, nil
}

func (r *baseRepo[E]) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("cursor all: %w", err)
	}
	return nil
}
