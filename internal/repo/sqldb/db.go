package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	MaxOpenConns int
	Debug        bool
}

// Open connects lazily; the first query or Ping dials the server.
func Open(driver, dsn string, opts Options) (*bun.DB, error) {
	var db *bun.DB
	switch driver {
	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite allows one writer; in-memory databases are per connection
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db.AddQueryHook(&queryLogger{
		log:   logger.MustNamed("sql"),
		debug: opts.Debug,
		slow:  500 * time.Millisecond,
	})
	return db, nil
}

func NewStore(db *bun.DB) *repo.Store {
	return &repo.Store{
		Products:     NewProductRepository(db),
		Universities: NewUniversityRepository(db),
		Orders:       NewOrderRepository(db),
		Users:        NewUserRepository(db),
		Migrate: func(ctx context.Context) error {
			return Migrate(ctx, db)
		},
		Ping: db.PingContext,
		Close: func(context.Context) error {
			return db.Close()
		},
	}
}

type queryLogger struct {
	log   *logger.Logger
	debug bool
	slow  time.Duration
}

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		h.log.Warnw("query failed", "query", event.Query, "latency_ms", elapsed.Milliseconds(), "error", event.Err,
			"request_id", logger.RequestIDFromContext(ctx))
	case elapsed > h.slow:
		h.log.Warnw("slow query", "query", event.Query, "latency_ms", elapsed.Milliseconds(),
			"request_id", logger.RequestIDFromContext(ctx))
	case h.debug:
		h.log.Debugw("query", "query", event.Query, "latency_ms", elapsed.Milliseconds())
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", models.ErrConflict, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
