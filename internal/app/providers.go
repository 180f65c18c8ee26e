package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/nguyentranbao-ct/merch-api/internal/repo/cache"
	"github.com/nguyentranbao-ct/merch-api/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/merch-api/internal/repo/sqldb"
	"github.com/nguyentranbao-ct/merch-api/internal/usecase"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const (
	driverMongo = "mongo"

	cacheRedis  = "redis"
	cacheMemory = "memory"
	cacheNone   = "none"
)

func newStore(lc fx.Lifecycle, cfg *config.Config) (*repo.Store, error) {
	var store *repo.Store
	switch cfg.Database.Driver {
	case sqldb.DriverPostgres, sqldb.DriverSQLite:
		db, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN, sqldb.Options{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			Debug:        cfg.Database.Debug,
		})
		if err != nil {
			return nil, err
		}
		store = sqldb.NewStore(db)
	case driverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		db, err := mongodb.Connect(ctx, cfg.Database.DSN, cfg.Database.Database)
		if err != nil {
			return nil, err
		}
		store = mongodb.NewStore(db)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("ping %s: %w", cfg.Database.Driver, err)
			}
			return nil
		},
		OnStop: store.Close,
	})
	return store, nil
}

type repositoryOut struct {
	fx.Out

	Products     repo.ProductRepository
	Universities repo.UniversityRepository
	Orders       repo.OrderRepository
	Users        repo.UserRepository
}

func repositories(store *repo.Store) repositoryOut {
	return repositoryOut{
		Products:     store.Products,
		Universities: store.Universities,
		Orders:       store.Orders,
		Users:        store.Users,
	}
}

// newCacheStore never fails on an unreachable cache. The guard reports the
// backend as down and requests go straight to the database until it returns.
func newCacheStore(lc fx.Lifecycle, cfg *config.Config) (cache.Store, error) {
	var store cache.Store
	switch cfg.Cache.Driver {
	case cacheRedis:
		store = cache.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		}))
	case cacheMemory:
		store = cache.NewMemoryStore(cache.MemoryConfig{
			Capacity:           cfg.Cache.Capacity,
			NumShards:          cfg.Cache.Shards,
			EvictionPercentage: cfg.Cache.EvictionPercentage,
		})
	case cacheNone, "":
		store = cache.NopStore{}
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}

	guarded, err := cache.Guard(store, cache.GuardConfig{
		OpTimeout:     cfg.Cache.OpTimeout,
		RetryInterval: cfg.Cache.RetryInterval,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := guarded.Ping(ctx); err != nil {
				logger.Warnw(ctx, "cache unavailable, serving from database", "driver", cfg.Cache.Driver, "error", err)
				return nil
			}
			logger.Infow(ctx, "cache connected", "driver", cfg.Cache.Driver)
			return nil
		},
		OnStop: func(context.Context) error {
			return guarded.Close()
		},
	})
	return guarded, nil
}

func newKeyBuilder(cfg *config.Config) cache.KeyBuilder {
	return cache.NewKeyBuilder(cfg.Cache.KeyPrefix)
}

func newResultCache(lc fx.Lifecycle, cfg *config.Config, store cache.Store, keys cache.KeyBuilder) *usecase.ResultCache {
	rc := usecase.NewResultCache(store, keys, cfg.Cache.WriteWorkers)
	// registered after the cache store, so pending writes drain before it closes
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			rc.Close()
			return nil
		},
	})
	return rc
}

func newInstanceID() usecase.InstanceID {
	return usecase.InstanceID(uuid.NewString())
}
