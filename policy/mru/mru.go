// Package mru implements the Most-Recently-Used eviction policy: on
// eviction the entry that was most recently touched is the one discarded.
package mru

import (
	"sync"

	"github.com/IvanBrykalov/cachekit/internal/list"
	"github.com/IvanBrykalov/cachekit/policy"
)

type entry[K comparable, V any] struct {
	value V
	node  *list.Node[K]
}

// Cache is a fixed-capacity MRU cache. The zero value is not useful; build
// one with New.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	m       map[K]*entry[K, V]
	order   *list.List[K] // head = MRU (eviction target), tail = least recent
	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures an MRU cache. Size must be >= 1.
type Config struct {
	Size    int
	Metrics policy.Metrics
}

// New validates cfg and constructs an MRU cache.
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
		m:       make(map[K]*entry[K, V], cfg.Size),
		order:   list.New[K](),
		metrics: m,
	}, nil
}

// Get returns key's value and promotes it to the front — which is also the
// MRU eviction target — on a hit.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		c.misses++
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.order.MoveToFront(e.node)
	c.hits++
	c.metrics.Hit()
	return e.value, true
}

// Put inserts key if absent (evicting the MRU entry first if full), or
// replaces its value and promotes it to the front if already present.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok {
		e.value = value
		c.order.MoveToFront(e.node)
		return
	}

	if len(c.m) >= c.cap {
		c.evictMRULocked()
	}

	n := c.order.PushFront(key)
	c.m[key] = &entry[K, V]{value: value, node: n}
	c.metrics.Size(len(c.m))
}

func (c *Cache[K, V]) evictMRULocked() {
	n := c.order.PopFront()
	if n == nil {
		return
	}
	delete(c.m, n.Key)
	c.metrics.Evict(policy.EvictPolicy)
}

// Clear empties the cache and resets the hit/miss counters.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[K]*entry[K, V])
	c.order.Clear()
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
