// Package cache holds the listing cache stores. Every store is wrapped with
// Guard before use so that a slow or dead backend degrades to cache misses.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache miss")
	// ErrUnavailable wraps every backend failure and timeout.
	ErrUnavailable = errors.New("cache unavailable")
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// NopStore is used when caching is disabled. Every lookup misses.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, error) {
	return nil, ErrMiss
}

func (NopStore) SetWithExpiry(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NopStore) DeleteByPrefix(context.Context, string) (int64, error) {
	return 0, nil
}

func (NopStore) Ping(context.Context) error {
	return nil
}

func (NopStore) Close() error {
	return nil
}
