package cache_test

import (
	"strconv"
	"testing"

	"github.com/IvanBrykalov/cachekit/cache"
	"github.com/IvanBrykalov/cachekit/policy"
	"github.com/IvanBrykalov/cachekit/policy/lru"
	"github.com/IvanBrykalov/cachekit/policy/static"
)

func lruFactory[K comparable, V any](size int) cache.Factory[K, V] {
	return func(m policy.Metrics) (policy.Cache[K, V], error) {
		return lru.New[K, V](lru.Config{Size: size, Metrics: m})
	}
}

func TestNewShardedInvalidConfiguration(t *testing.T) {
	if _, err := cache.NewSharded[string, int](cache.Options[string, int]{}); err == nil {
		t.Fatalf("New without a Factory should be rejected")
	}
}

func TestShardedRoutesByKeyAndAggregates(t *testing.T) {
	c, err := cache.NewSharded[string, int](cache.Options[string, int]{
		Shards: 4,
		New:    lruFactory[string, int](8),
	})
	if err != nil {
		t.Fatalf("NewSharded: %v", err)
	}

	for i := 0; i < 100; i++ {
		c.Put("k"+strconv.Itoa(i), i)
	}
	if c.Cap() != 32 { // 4 shards * 8
		t.Fatalf("Cap() = %d, want 32", c.Cap())
	}

	c.Put("x", 1)
	if v, ok := c.Get("x"); !ok || v != 1 {
		t.Fatalf("get x = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := c.Get("does-not-exist"); ok {
		t.Fatalf("unexpected hit for a key never put")
	}
	if c.Hits() != 1 || c.Misses() != 1 {
		t.Fatalf("Hits=%d Misses=%d, want 1/1", c.Hits(), c.Misses())
	}
}

func TestShardedClearResetsEverything(t *testing.T) {
	c, _ := cache.NewSharded[string, int](cache.Options[string, int]{
		Shards: 2,
		New:    lruFactory[string, int](4),
	})
	c.Put("a", 1)
	c.Get("a")
	c.Get("missing")

	c.Clear()
	if c.Len() != 0 || c.Hits() != 0 || c.Misses() != 0 {
		t.Fatalf("after Clear: Len=%d Hits=%d Misses=%d, want all 0", c.Len(), c.Hits(), c.Misses())
	}
}

func TestShardedUnboundedFactoryReportsUnbounded(t *testing.T) {
	c, err := cache.NewSharded[string, int](cache.Options[string, int]{
		Shards: 2,
		New: func(m policy.Metrics) (policy.Cache[string, int], error) {
			return static.New[string, int](static.Config{Metrics: m})
		},
	})
	if err != nil {
		t.Fatalf("NewSharded: %v", err)
	}
	if c.Cap() != policy.Unbounded {
		t.Fatalf("Cap() = %d, want Unbounded", c.Cap())
	}
}
