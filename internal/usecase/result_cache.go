package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/goccy/go-json"

	"github.com/nguyentranbao-ct/merch-api/internal/repo/cache"
	"github.com/nguyentranbao-ct/merch-api/pkg/ctxval"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
)

type CacheStatus string

const (
	CacheHit    CacheStatus = "HIT"
	CacheMiss   CacheStatus = "MISS"
	CacheBypass CacheStatus = "BYPASS"
)

type cacheStatusKey struct{}

// CacheStatusFromContext reports how the last cached read of the request was
// served. The context must have been wrapped with ctxval.Wrap.
func CacheStatusFromContext(ctx context.Context) (CacheStatus, bool) {
	return ctxval.Get[cacheStatusKey, CacheStatus](ctx, cacheStatusKey{})
}

// ResultCache is a cache-aside layer over a guarded store. Cache writes run on
// a worker pool so they never delay the response.
//
// Every eviction bumps the generation of its route prefix. A queued write
// carries the generation seen before its result was loaded and is dropped
// when an eviction covering its route happened in between, so an evicted
// listing is never written back.
type ResultCache struct {
	store cache.Store
	keys  cache.KeyBuilder

	mu     sync.RWMutex
	writes *workerpool.WorkerPool
	closed bool

	// fence is held shared by writes and exclusively by evictions
	fence       sync.RWMutex
	generations map[string]uint64
}

func NewResultCache(store cache.Store, keys cache.KeyBuilder, workers int) *ResultCache {
	return &ResultCache{
		store:       store,
		keys:        keys,
		writes:      workerpool.New(max(workers, 1)),
		generations: make(map[string]uint64),
	}
}

// generation sums the counters of every evicted prefix covering route.
// Counters only grow, so any eviction in between changes the sum.
// Callers hold fence.
func (rc *ResultCache) generation(route string) uint64 {
	var gen uint64
	for prefix, n := range rc.generations {
		if strings.HasPrefix(route, prefix) {
			gen += n
		}
	}
	return gen
}

func (rc *ResultCache) snapshot(route string) uint64 {
	rc.fence.RLock()
	defer rc.fence.RUnlock()
	return rc.generation(route)
}

// Evict deletes every entry cached under route and fences off writes
// still queued for it.
func (rc *ResultCache) Evict(ctx context.Context, route string) (int64, error) {
	rc.fence.Lock()
	defer rc.fence.Unlock()
	rc.generations[route]++
	return rc.store.DeleteByPrefix(ctx, rc.keys.RoutePrefix(route))
}

// Close waits for pending cache writes. Later writes are dropped.
func (rc *ResultCache) Close() {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return
	}
	rc.closed = true
	rc.mu.Unlock()
	rc.writes.StopWait()
}

// GetOrLoad serves route+query from the cache, or calls load and stores its
// result for ttl. Cache failures never fail the call: an unreachable cache
// degrades to load on every request.
func GetOrLoad[T any](ctx context.Context, rc *ResultCache, route string, query url.Values, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	key := rc.keys.Key(route, query)
	gen := rc.snapshot(route)

	status := CacheMiss
	raw, err := rc.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			ctxval.Set(ctx, cacheStatusKey{}, CacheHit)
			return cached, nil
		}
		logger.Warnw(ctx, "discard undecodable cache entry", "key", key, "error", err)
	case errors.Is(err, cache.ErrMiss):
	default:
		status = CacheBypass
	}
	ctxval.Set(ctx, cacheStatusKey{}, status)

	result, err := load(ctx)
	if err != nil {
		return result, err
	}
	if status != CacheBypass {
		rc.populate(ctx, route, gen, key, result, ttl)
	}
	return result, nil
}

func (rc *ResultCache) populate(ctx context.Context, route string, gen uint64, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warnw(ctx, "encode cache entry", "key", key, "error", err)
		return
	}

	rc.mu.RLock()
	defer rc.mu.RUnlock()
	if rc.closed {
		return
	}
	ctx = context.WithoutCancel(ctx)
	rc.writes.Submit(func() {
		rc.fence.RLock()
		defer rc.fence.RUnlock()
		if rc.generation(route) != gen {
			logger.Debugw(ctx, "cache write dropped after eviction", "key", key)
			return
		}
		if err := rc.store.SetWithExpiry(ctx, key, raw, ttl); err != nil {
			logger.Debugw(ctx, "cache write skipped", "key", key, "error", err)
		}
	})
}
