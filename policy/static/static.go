// Package static implements the unbounded store: a plain keyed index with
// no admission/eviction policy at all. Useful as a baseline and for data
// that should never be dropped short of an explicit Clear.
package static

import (
	"sync"

	"github.com/IvanBrykalov/cachekit/policy"
)

// Cache is an unbounded cache. The zero value is not useful; build one
// with New.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	m       map[K]V
	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures a Static cache. There are no size parameters to
// validate: a Static cache never evicts.
type Config struct {
	Metrics policy.Metrics
}

// New constructs a Static cache. It never fails.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	m := cfg.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	return &Cache[K, V]{
		m:       make(map[K]V),
		metrics: m,
	}, nil
}

// Get returns key's value. Static entries never expire or get evicted, so
// a miss only happens for a key that was never put (or was cleared).
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

// Put inserts or replaces key's value. There is no admission capacity to
// enforce, so Put never evicts.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, existed := c.m[key]
	c.m[key] = value
	if !existed {
		c.metrics.Size(len(c.m))
	}
}

// Clear empties the cache and resets the hit/miss counters. This is the
// only way an entry ever leaves a Static cache.
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

// Cap reports policy.Unbounded: Static has no maximum size.
func (c *Cache[K, V]) Cap() int { return policy.Unbounded }

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
