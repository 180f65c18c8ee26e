package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
	"github.com/nguyentranbao-ct/merch-api/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultOpTimeout     = 150 * time.Millisecond
	DefaultRetryInterval = 5 * time.Second
)

type GuardConfig struct {
	// OpTimeout bounds every call into the wrapped store.
	OpTimeout time.Duration
	// RetryInterval is how long the store is skipped after a failure.
	RetryInterval time.Duration
}

// guardedStore bounds every operation with a timeout. After a failure the
// backend is considered down for RetryInterval and calls short-circuit with
// ErrUnavailable instead of waiting on the timeout again.
type guardedStore struct {
	next          Store
	opTimeout     time.Duration
	retryInterval time.Duration
	metrics       *prometheus.HistogramVec
	now           func() time.Time

	downUntil atomic.Int64
}

func Guard(next Store, cfg GuardConfig) (Store, error) {
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultOpTimeout
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	metrics, err := util.GetHistogramVec("cache_operation_duration_seconds", "operation", "result")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &guardedStore{
		next:          next,
		opTimeout:     cfg.OpTimeout,
		retryInterval: cfg.RetryInterval,
		metrics:       metrics,
		now:           time.Now,
	}, nil
}

func (g *guardedStore) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := g.do(ctx, "get", func(ctx context.Context) error {
		var err error
		val, err = g.next.Get(ctx, key)
		return err
	})
	return val, err
}

func (g *guardedStore) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return g.do(ctx, "set", func(ctx context.Context) error {
		return g.next.SetWithExpiry(ctx, key, value, ttl)
	})
}

func (g *guardedStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := g.do(ctx, "delete_prefix", func(ctx context.Context) error {
		var err error
		n, err = g.next.DeleteByPrefix(ctx, prefix)
		return err
	})
	return n, err
}

// Ping always reaches the backend and clears the down mark on success.
func (g *guardedStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.opTimeout)
	defer cancel()
	if err := g.next.Ping(ctx); err != nil {
		g.markDown()
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	g.downUntil.Store(0)
	return nil
}

func (g *guardedStore) Close() error {
	return g.next.Close()
}

func (g *guardedStore) isDown() bool {
	until := g.downUntil.Load()
	return until != 0 && g.now().UnixNano() < until
}

func (g *guardedStore) markDown() {
	g.downUntil.Store(g.now().Add(g.retryInterval).UnixNano())
}

func (g *guardedStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if g.isDown() {
		g.metrics.WithLabelValues(op, "skipped").Observe(0)
		return fmt.Errorf("%w: %s skipped", ErrUnavailable, op)
	}

	opCtx, cancel := context.WithTimeout(ctx, g.opTimeout)
	defer cancel()

	start := g.now()
	err := fn(opCtx)
	elapsed := g.now().Sub(start)

	switch {
	case err == nil:
		g.metrics.WithLabelValues(op, "ok").Observe(elapsed.Seconds())
		return nil
	case errors.Is(err, ErrMiss):
		g.metrics.WithLabelValues(op, "miss").Observe(elapsed.Seconds())
		return err
	}

	g.metrics.WithLabelValues(op, "error").Observe(elapsed.Seconds())
	// a caller that gave up says nothing about the backend
	if ctx.Err() == nil {
		g.markDown()
	}
	logger.Warnw(ctx, "cache operation failed", "operation", op, "latency_ms", elapsed.Milliseconds(), "error", err)
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
