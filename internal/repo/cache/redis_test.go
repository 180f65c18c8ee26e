package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*miniredis.Miniredis, Store) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewRedisStore(client)
}

func TestRedisStore_GetSet(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedisStore(t)

	_, err := store.Get(ctx, "cache:/api/products")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.SetWithExpiry(ctx, "cache:/api/products", []byte(`{"items":[]}`), 300*time.Second))

	got, err := store.Get(ctx, "cache:/api/products")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))
	assert.Equal(t, 300*time.Second, mr.TTL("cache:/api/products"))

	mr.FastForward(301 * time.Second)
	_, err = store.Get(ctx, "cache:/api/products")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedisStore(t)

	for i := 0; i < 450; i++ {
		key := fmt.Sprintf("cache:/api/products?page=%d", i)
		require.NoError(t, store.SetWithExpiry(ctx, key, []byte("x"), time.Minute))
	}
	require.NoError(t, store.SetWithExpiry(ctx, "cache:/api/products/categories", []byte("x"), time.Hour))
	require.NoError(t, store.SetWithExpiry(ctx, "cache:/api/universities", []byte("x"), time.Minute))
	require.NoError(t, mr.Set("session:abc", "keep"))

	n, err := store.DeleteByPrefix(ctx, "cache:/api/products")
	require.NoError(t, err)
	assert.Equal(t, int64(451), n)

	assert.True(t, mr.Exists("cache:/api/universities"))
	assert.True(t, mr.Exists("session:abc"))
	assert.False(t, mr.Exists("cache:/api/products/categories"))

	n, err = store.DeleteByPrefix(ctx, "cache:/api/products")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestRedisStore(t)
	mr.Close()

	_, err := store.Get(ctx, "cache:/api/products")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
	assert.Error(t, store.Ping(ctx))
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `cache:/api/products`, escapeGlob("cache:/api/products"))
	assert.Equal(t, `cache:/a\?b=\[1\]\*`, escapeGlob("cache:/a?b=[1]*"))
}
