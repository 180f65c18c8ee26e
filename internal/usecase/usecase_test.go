package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyentranbao-ct/merch-api/internal/config"
	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/internal/repo"
	"github.com/nguyentranbao-ct/merch-api/internal/repo/cache"
	"github.com/nguyentranbao-ct/merch-api/internal/repo/sqldb"
	"github.com/nguyentranbao-ct/merch-api/pkg/ctxval"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.CatalogEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event models.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Events() []models.CatalogEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.CatalogEvent(nil), p.events...)
}

type harness struct {
	conf        *config.Config
	store       *repo.Store
	mr          *miniredis.Miniredis
	keys        cache.KeyBuilder
	cache       *ResultCache
	publisher   *recordingPublisher
	invalidator Invalidator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := sqldb.Open(sqldb.DriverSQLite, "file::memory:?_fk=1", sqldb.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqldb.Migrate(ctx, db))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store, err := cache.Guard(cache.NewRedisStore(client), cache.GuardConfig{
		OpTimeout:     200 * time.Millisecond,
		RetryInterval: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	keys := cache.NewKeyBuilder("")
	rc := NewResultCache(store, keys, 2)
	t.Cleanup(rc.Close)

	publisher := &recordingPublisher{}
	return &harness{
		conf: &config.Config{
			Cache: config.CacheConfig{
				ListingTTL:  5 * time.Minute,
				CategoryTTL: time.Hour,
			},
			Auth: config.AuthConfig{
				JWTSecret:        "access-secret",
				JWTRefreshSecret: "refresh-secret",
				AccessTTL:        time.Hour,
				RefreshTTL:       24 * time.Hour,
				BcryptCost:       bcrypt.MinCost,
			},
		},
		store:       sqldb.NewStore(db),
		mr:          mr,
		keys:        keys,
		cache:       rc,
		publisher:   publisher,
		invalidator: NewInvalidator(rc, publisher, "test-instance"),
	}
}

// slowWrites delays every cache write, as a congested cache link would.
type slowWrites struct {
	cache.Store
	delay time.Duration
}

func (s slowWrites) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	time.Sleep(s.delay)
	return s.Store.SetWithExpiry(ctx, key, value, ttl)
}

// useCacheStore swaps the result cache and invalidator onto store.
func (h *harness) useCacheStore(t *testing.T, store cache.Store) {
	t.Helper()
	h.cache = NewResultCache(store, h.keys, 2)
	t.Cleanup(h.cache.Close)
	h.invalidator = NewInvalidator(h.cache, h.publisher, "test-instance")
}

func (h *harness) products() ProductUsecase {
	return NewProductUsecase(h.conf, h.store.Products, h.store.Universities, h.cache, h.invalidator)
}

func (h *harness) universities() UniversityUsecase {
	return NewUniversityUsecase(h.conf, h.store.Universities, h.cache, h.invalidator)
}

func (h *harness) orders() OrderUsecase {
	return NewOrderUsecase(h.conf, h.store.Orders, h.store.Products, h.cache, h.invalidator)
}

func (h *harness) createUniversity(t *testing.T, name string) *models.University {
	t.Helper()
	now := time.Now().UTC()
	u := &models.University{
		ID:        uuid.NewString(),
		Name:      name,
		Location:  "Somewhere",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, h.store.Universities.Create(context.Background(), u))
	return u
}

func (h *harness) createProduct(t *testing.T, universityID, name string, createdAt time.Time) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     "Apparel",
		Price:        19.99,
		Stock:        10,
		IsActive:     true,
		UniversityID: universityID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, h.store.Products.Create(context.Background(), p))
	return p
}

// waitCached blocks until the asynchronous cache write for key lands.
func (h *harness) waitCached(t *testing.T, key string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.mr.Exists(key)
	}, 2*time.Second, 5*time.Millisecond)
}

func requestContext() context.Context {
	return ctxval.Wrap(context.Background())
}

func cacheStatus(t *testing.T, ctx context.Context) CacheStatus {
	t.Helper()
	status, ok := CacheStatusFromContext(ctx)
	require.True(t, ok)
	return status
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
