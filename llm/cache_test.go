package llm

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheBasic(t *testing.T) {
	cache := NewMemoryCache(10, 1*time.Minute)
	ctx := context.Background()

	err := cache.Set(ctx, "key1", "value1", 1*time.Minute)
	if err != nil {
		t.Fatalf("Failed to set: %v", err)
	}

	value, found, err := cache.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if !found {
		t.Error("Expected to find key1")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %s", value)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	cache := NewMemoryCache(10, 1*time.Minute)

	_, found, err := cache.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if found {
		t.Error("Expected cache miss")
	}

	stats := cache.Stats()
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	cache := NewMemoryCache(10, 1*time.Minute)
	ctx := context.Background()

	if err := cache.Set(ctx, "key1", "value1", 10*time.Millisecond); err != nil {
		t.Fatalf("Failed to set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	_, found, _ := cache.Get(ctx, "key1")
	if found {
		t.Error("Expected expired entry to be a miss")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	cache := NewMemoryCache(2, 1*time.Minute)
	ctx := context.Background()

	_ = cache.Set(ctx, "a", "1", time.Minute)
	time.Sleep(2 * time.Millisecond)
	_ = cache.Set(ctx, "b", "2", time.Minute)
	time.Sleep(2 * time.Millisecond)

	// Touch "a" so "b" becomes the oldest.
	if _, found, _ := cache.Get(ctx, "a"); !found {
		t.Fatal("Expected to find a")
	}
	time.Sleep(2 * time.Millisecond)

	_ = cache.Set(ctx, "c", "3", time.Minute)

	if _, found, _ := cache.Get(ctx, "b"); found {
		t.Error("Expected b to be evicted")
	}
	if _, found, _ := cache.Get(ctx, "a"); !found {
		t.Error("Expected a to survive")
	}
	if cache.Stats().Evictions != 1 {
		t.Errorf("Expected 1 eviction, got %d", cache.Stats().Evictions)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	cache := NewMemoryCache(10, 1*time.Minute)
	ctx := context.Background()

	_ = cache.Set(ctx, "key1", "value1", time.Minute)
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	if _, found, _ := cache.Get(ctx, "key1"); found {
		t.Error("Expected cache to be empty after clear")
	}
}

func TestCacheKeyStability(t *testing.T) {
	a := cacheKey("m", "question", 0.7, "sys")
	b := cacheKey("m", "question", 0.7, "sys")
	if a != b {
		t.Error("Expected identical inputs to produce identical keys")
	}

	c := cacheKey("m", "question", 0.8, "sys")
	if a == c {
		t.Error("Expected different temperature to change the key")
	}
}
