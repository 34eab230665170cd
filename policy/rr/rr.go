// Package rr implements the Random-Replacement eviction policy: no access
// order is tracked at all, and a full cache evicts an arbitrary resident
// key to make room.
package rr

import (
	"sync"

	"github.com/IvanBrykalov/cachekit/policy"
)

// Cache is a fixed-capacity RR cache. The zero value is not useful; build
// one with New.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	m       map[K]V
	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures an RR cache. Size must be >= 1.
type Config struct {
	Size    int
	Metrics policy.Metrics
}

// New validates cfg and constructs an RR cache.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if cfg.Size < 1 {
		return nil, policy.NewConfigError("Size", "must be >= 1")
	}
	m := cfg.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	return &Cache[K, V]{
		cap:     cfg.Size,
		m:       make(map[K]V, cfg.Size),
		metrics: m,
	}, nil
}

// Get returns key's value. No ordering is maintained, so a hit has no
// side effect beyond the counters.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.m[key]
	if !ok {
		c.misses++
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.hits++
	c.metrics.Hit()
	return v, true
}

// Put inserts key if absent (evicting an arbitrary resident key first if
// full), or replaces its value in place if already present.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.m[key]; ok {
		c.m[key] = value
		return
	}

	if len(c.m) >= c.cap {
		c.evictLocked()
	}
	c.m[key] = value
	c.metrics.Size(len(c.m))
}

// evictLocked removes one arbitrary key. Go's randomized map iteration
// order is exactly the "implementation may choose any" tie-breaking the
// policy calls for.
func (c *Cache[K, V]) evictLocked() {
	for k := range c.m {
		delete(c.m, k)
		c.metrics.Evict(policy.EvictPolicy)
		return
	}
}

// Clear empties the cache and resets the hit/miss counters.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[K]V)
	c.hits, c.misses = 0, 0
}

// Len reports the current number of resident keys.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap reports the configured maximum size.
func (c *Cache[K, V]) Cap() int { return c.cap }

// Hits reports the number of hits since construction or the last Clear.
func (c *Cache[K, V]) Hits() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// Misses reports the number of misses since construction or the last Clear.
func (c *Cache[K, V]) Misses() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

var _ policy.Cache[int, int] = (*Cache[int, int])(nil)
