package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// Cache is the interface for response caching
type Cache interface {
	// Get retrieves a cached response
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a response in cache with TTL
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all keys from cache
	Clear(ctx context.Context) error

	// Stats returns cache statistics
	Stats() CacheStats
}

// CacheStats represents cache statistics
type CacheStats struct {
	Hits        int64 // Number of cache hits
	Misses      int64 // Number of cache misses
	Size        int   // Current number of cached items
	Evictions   int64 // Number of evictions (LRU)
	TotalWrites int64 // Total number of writes
}

// cacheEntry represents one cached item
type cacheEntry struct {
	value      string
	expiresAt  time.Time
	accessedAt time.Time
}

// cacheKey derives a stable key from the request-shaping inputs.
func cacheKey(model, message string, temperature float64, system string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%g|%s", model, message, temperature, system)))
	return hex.EncodeToString(sum[:])
}

// MemoryCache is an in-memory cache with LRU eviction.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	maxSize    int
	defaultTTL time.Duration
	stats      CacheStats
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache(maxSize int, defaultTTL time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	return &MemoryCache{
		entries:    make(map[string]*cacheEntry),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a cached response. Expired entries count as misses and
// are dropped on access.
func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.stats.Misses++
		return "", false, nil
	}

	entry.accessedAt = time.Now()
	c.stats.Hits++
	return entry.value, true, nil
}

// Set stores a response. A non-positive ttl uses the cache default.
func (c *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	now := time.Now()
	c.entries[key] = &cacheEntry{
		value:      value,
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	}
	c.stats.TotalWrites++
	c.stats.Size = len(c.entries)
	return nil
}

// evictOldest removes the least recently accessed entry. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.accessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.accessedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
	}
}

// Delete removes a key from cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.stats.Size = len(c.entries)
	return nil
}

// Clear removes all keys from cache.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.stats.Size = 0
	return nil
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := c.stats
	stats.Size = len(c.entries)
	return stats
}

// WithCache sets a custom cache implementation for the Ask path.
//
// Example:
//
//	client.WithCache(llm.NewMemoryCache(1000, 5*time.Minute))
func (c *Client) WithCache(cache Cache) *Client {
	c.cache = cache
	c.cacheEnabled = true
	return c
}

// WithMemoryCache enables in-memory response caching with LRU eviction.
func (c *Client) WithMemoryCache(maxSize int, defaultTTL time.Duration) *Client {
	c.cache = NewMemoryCache(maxSize, defaultTTL)
	c.cacheEnabled = true
	return c
}

// WithCacheTTL sets the TTL used when storing responses.
func (c *Client) WithCacheTTL(ttl time.Duration) *Client {
	c.cacheTTL = ttl
	return c
}

// DisableCache turns caching off without dropping the cache.
func (c *Client) DisableCache() *Client {
	c.cacheEnabled = false
	return c
}

// EnableCache re-enables caching (if a cache is set).
func (c *Client) EnableCache() *Client {
	if c.cache != nil {
		c.cacheEnabled = true
	}
	return c
}
