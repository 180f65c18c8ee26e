package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*DB, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("merch-api").
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(30 * time.Second).
		SetTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	return &DB{
		Client:   client,
		Database: client.Database(database),
	}, nil
}

func NewStore(db *DB) *repo.Store {
	return &repo.Store{
		Products:     NewProductRepository(db),
		Universities: NewUniversityRepository(db),
		Orders:       NewOrderRepository(db),
		Users:        NewUserRepository(db),
		Migrate:      db.EnsureIndexes,
		Ping: func(ctx context.Context) error {
			return db.Client.Ping(ctx, nil)
		},
		Close: db.Client.Disconnect,
	}
}

// EnsureIndexes creates the indexes the repositories rely on.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		"universities": {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"products": {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "university_id", Value: 1}}},
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"orders": {
			{Keys: bson.D{{Key: "university_id", Value: 1}, {Key: "order_date", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
