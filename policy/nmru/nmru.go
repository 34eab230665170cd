// Package nmru implements the Not-Most-Recently-Used eviction policy: a
// single distinguished "MRU slot" holds the most recently touched key, and
// eviction spares it, picking an arbitrary victim from the rest. At size 1
// the MRU slot is the only entry, so it is the one evicted.
package nmru

import (
	"sync"

	"github.com/IvanBrykalov/cachekit/policy"
)

// Cache is a fixed-capacity NMRU cache. The zero value is not useful; build
// one with New.
type Cache[K comparable, V any] struct {
	mu     sync.Mutex
	cap    int
	hasMRU bool
	mruKey K
	mruVal V
	other  map[K]V
	hits   uint64
	misses uint64

	metrics policy.Metrics
}

// Config configures an NMRU cache. Size must be >= 1.
type Config struct {
	Size    int
	Metrics policy.Metrics
}

// New validates cfg and constructs an NMRU cache.
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
		other:   make(map[K]V),
		metrics: m,
	}, nil
}

// Get returns key's value. A hit swaps key into the MRU slot, moving the
// previous occupant back into the unordered mapping.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasMRU && c.mruKey == key {
		c.hits++
		c.metrics.Hit()
		return c.mruVal, true
	}
	if v, ok := c.other[key]; ok {
		c.swapIntoMRULocked(key, v)
		c.hits++
		c.metrics.Hit()
		return v, true
	}
	c.misses++
	c.metrics.Miss()
	var zero V
	return zero, false
}

// Put inserts key if absent (evicting an arbitrary non-MRU entry first if
// full), or swaps it into the MRU slot if already present. In either case
// key becomes the new MRU slot occupant.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasMRU && c.mruKey == key {
		c.mruVal = value
		return
	}
	if _, ok := c.other[key]; ok {
		c.swapIntoMRULocked(key, value)
		return
	}

	if c.lenLocked() >= c.cap {
		c.evictLocked()
	}

	if c.cap == 1 {
		c.mruKey, c.mruVal, c.hasMRU = key, value, true
		c.metrics.Size(c.lenLocked())
		return
	}
	if c.hasMRU {
		c.other[c.mruKey] = c.mruVal
	}
	c.mruKey, c.mruVal, c.hasMRU = key, value, true
	c.metrics.Size(c.lenLocked())
}

// swapIntoMRULocked moves key/value into the MRU slot, returning the
// previous occupant (if any) to the unordered mapping.
func (c *Cache[K, V]) swapIntoMRULocked(key K, value V) {
	delete(c.other, key)
	if c.hasMRU {
		c.other[c.mruKey] = c.mruVal
	}
	c.mruKey, c.mruVal, c.hasMRU = key, value, true
}

// evictLocked discards the MRU slot occupant when max_size == 1 (the only
// entry held), otherwise an arbitrary entry from the unordered mapping.
func (c *Cache[K, V]) evictLocked() {
	if c.cap == 1 {
		if c.hasMRU {
			c.hasMRU = false
			c.metrics.Evict(policy.EvictPolicy)
		}
		return
	}
	for k := range c.other {
		delete(c.other, k)
		c.metrics.Evict(policy.EvictPolicy)
		return
	}
}

func (c *Cache[K, V]) lenLocked() int {
	n := len(c.other)
	if c.hasMRU {
		n++
	}
	return n
}

// Clear empties the cache and resets the hit/miss counters.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.other = make(map[K]V)
	c.hasMRU = false
	var zeroK K
	var zeroV V
	c.mruKey, c.mruVal = zeroK, zeroV
	c.hits, c.misses = 0, 0
}

// Len reports the current number of resident keys: 0 with an empty MRU
// slot, otherwise 1 plus the size of the unordered mapping.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lenLocked()
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
