package llm

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	server := miniredis.RunT(t)

	cache, err := NewRedisCache(server.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestRedisCacheSetGet(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key1", "value1", time.Minute))

	value, found, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value1", value)
}

func TestRedisCacheMiss(t *testing.T) {
	cache := newTestRedisCache(t)

	_, found, err := cache.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, int64(1), cache.Stats().Misses)
}

func TestRedisCacheDelete(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key1", "value1", time.Minute))
	require.NoError(t, cache.Delete(ctx, "key1"))

	_, found, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheClear(t *testing.T) {
	cache := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key1", "value1", time.Minute))
	require.NoError(t, cache.Set(ctx, "key2", "value2", time.Minute))
	require.NoError(t, cache.Clear(ctx))

	for _, key := range []string{"key1", "key2"} {
		_, found, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, "key %s should be gone", key)
	}
}

func TestRedisCacheKeyPrefixIsolation(t *testing.T) {
	server := miniredis.RunT(t)

	first, err := NewRedisCacheWithOptions(&RedisCacheOptions{
		Addrs:     []string{server.Addr()},
		KeyPrefix: "app-one",
	})
	require.NoError(t, err)
	second, err := NewRedisCacheWithOptions(&RedisCacheOptions{
		Addrs:     []string{server.Addr()},
		KeyPrefix: "app-two",
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, first.Set(ctx, "shared", "one", time.Minute))
	require.NoError(t, second.Set(ctx, "shared", "two", time.Minute))
	require.NoError(t, first.Clear(ctx))

	_, found, err := second.Get(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, found, "clearing one prefix must not touch the other")
}

func TestNewRedisCacheConnectionFailure(t *testing.T) {
	_, err := NewRedisCache("127.0.0.1:1", "", 0, time.Minute)
	assert.Error(t, err)
}
