package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(MemoryConfig{Capacity: 100, NumShards: 4})

	_, err := store.Get(ctx, "cache:/api/products?page=1")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.SetWithExpiry(ctx, "cache:/api/products?page=1", []byte("p1"), 5*time.Minute))
	require.NoError(t, store.SetWithExpiry(ctx, "cache:/api/products?page=2", []byte("p2"), 5*time.Minute))
	require.NoError(t, store.SetWithExpiry(ctx, "cache:/api/products/categories", []byte("c"), time.Hour))
	require.NoError(t, store.SetWithExpiry(ctx, "cache:/api/universities", []byte("u"), 5*time.Minute))

	got, err := store.Get(ctx, "cache:/api/products/categories")
	require.NoError(t, err)
	assert.Equal(t, "c", string(got))

	n, err := store.DeleteByPrefix(ctx, "cache:/api/products")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = store.Get(ctx, "cache:/api/products?page=1")
	assert.ErrorIs(t, err, ErrMiss)
	got, err = store.Get(ctx, "cache:/api/universities")
	require.NoError(t, err)
	assert.Equal(t, "u", string(got))
}

func TestMemoryStore_ReplaceAcrossTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(MemoryConfig{})

	require.NoError(t, store.SetWithExpiry(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, store.SetWithExpiry(ctx, "k", []byte("new"), time.Hour))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	n, err := store.DeleteByPrefix(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
