package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed Cache, for sharing cached answers across
// processes.
type RedisCache struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration

	statsLock sync.RWMutex
	stats     CacheStats
}

// RedisCacheOptions configures a RedisCache.
type RedisCacheOptions struct {
	Addrs    []string // Redis addresses (single node or cluster)
	Password string
	DB       int // Database number, single node only

	PoolSize     int // Connection pool size (default: 10)
	MinIdleConns int // Minimum idle connections (default: 2)

	DialTimeout  time.Duration // default: 5s
	ReadTimeout  time.Duration // default: 3s
	WriteTimeout time.Duration // default: 3s

	KeyPrefix  string        // Namespace prefix (default: "go-llm-client")
	DefaultTTL time.Duration // default: 5m
}

// NewRedisCache creates a Redis cache with simple configuration.
//
// Example:
//
//	cache, err := llm.NewRedisCache("localhost:6379", "", 0, 5*time.Minute)
func NewRedisCache(addr, password string, db int, defaultTTL time.Duration) (*RedisCache, error) {
	return NewRedisCacheWithOptions(&RedisCacheOptions{
		Addrs:      []string{addr},
		Password:   password,
		DB:         db,
		DefaultTTL: defaultTTL,
	})
}

// NewRedisCacheWithOptions creates a Redis cache with advanced options.
// The connection is verified with a ping before the cache is returned.
func NewRedisCacheWithOptions(opts *RedisCacheOptions) (*RedisCache, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis cache options cannot be nil")
	}

	if len(opts.Addrs) == 0 {
		opts.Addrs = []string{"localhost:6379"}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 10
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = 2
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 3 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 3 * time.Second
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "go-llm-client"
	}
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = 5 * time.Minute
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        opts.Addrs,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client:     client,
		prefix:     opts.KeyPrefix,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

// key namespaces a cache key under the configured prefix.
func (c *RedisCache) key(key string) string {
	return c.prefix + ":" + key
}

// Get retrieves a cached response.
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		c.recordMiss()
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	c.recordHit()
	return value, true, nil
}

// Set stores a response with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	c.statsLock.Lock()
	c.stats.TotalWrites++
	c.statsLock.Unlock()
	return nil
}

// Delete removes a key from cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Clear removes every key under this cache's prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis clear failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}

// Stats returns cache statistics. Size is not tracked for Redis.
func (c *RedisCache) Stats() CacheStats {
	c.statsLock.RLock()
	defer c.statsLock.RUnlock()
	return c.stats
}

// Close releases the underlying Redis connections.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) recordHit() {
	c.statsLock.Lock()
	c.stats.Hits++
	c.statsLock.Unlock()
}

func (c *RedisCache) recordMiss() {
	c.statsLock.Lock()
	c.stats.Misses++
	c.statsLock.Unlock()
}

// WithRedisCache enables Redis-based response caching with simple
// configuration. A connection failure leaves caching off.
//
// Example:
//
//	client.WithRedisCache("localhost:6379", "", 0)
func (c *Client) WithRedisCache(addr, password string, db int) *Client {
	cache, err := NewRedisCache(addr, password, db, 5*time.Minute)
	if err != nil {
		return c
	}
	c.cache = cache
	c.cacheEnabled = true
	return c
}
