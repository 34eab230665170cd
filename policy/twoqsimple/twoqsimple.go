// Package twoqsimple implements the simple two-queue (2Q) eviction policy:
// a FIFO secondary queue absorbs one-hit wonders, and only a repeat access
// earns promotion into an LRU primary queue.
package twoqsimple

import (
	"sync"

	"github.com/IvanBrykalov/cachekit/internal/list"
	"github.com/IvanBrykalov/cachekit/policy"
)

type segment int

const (
	secondary segment = iota
	primary
)

type entry[K comparable, V any] struct {
	value V
	seg   segment
	node  *list.Node[K]
}

// Cache is a fixed-capacity 2Q-simple cache. The zero value is not useful;
// build one with New.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	primCap int
	secCap  int

	m    map[K]*entry[K, V]
	prim *list.List[K] // LRU: head = MRU, tail = LRU
	sec  *list.List[K] // FIFO: head = newest, tail = oldest

	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures a 2Q-simple cache. Both sizes must be >= 1.
type Config struct {
	PrimarySize   int
	SecondarySize int
	Metrics       policy.Metrics
}

// New validates cfg and constructs a 2Q-simple cache.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if cfg.PrimarySize < 1 {
		return nil, policy.NewConfigError("PrimarySize", "must be >= 1")
	}
	if cfg.SecondarySize < 1 {
		return nil, policy.NewConfigError("SecondarySize", "must be >= 1")
	}
	m := cfg.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	return &Cache[K, V]{
		primCap: cfg.PrimarySize,
		secCap:  cfg.SecondarySize,
		m:       make(map[K]*entry[K, V]),
		prim:    list.New[K](),
		sec:     list.New[K](),
		metrics: m,
	}, nil
}

// Get returns key's value. A primary hit reorders within primary; a
// secondary hit promotes the key into primary, evicting primary's LRU
// entry first if it was full.
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
	c.touchLocked(e, key)
	c.hits++
	c.metrics.Hit()
	return e.value, true
}

// Put inserts key if absent (admitting to secondary, evicting secondary's
// oldest entry first if full), or replaces its value if already present.
// An existing-key Put reorders/promotes exactly as Get would.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok {
		e.value = value
		c.touchLocked(e, key)
		return
	}

	if c.sec.Len() >= c.secCap {
		c.evictSecondaryLocked()
	}
	n := c.sec.PushFront(key)
	c.m[key] = &entry[K, V]{value: value, seg: secondary, node: n}
	c.metrics.Size(len(c.m))
}

func (c *Cache[K, V]) touchLocked(e *entry[K, V], key K) {
	if e.seg == primary {
		c.prim.MoveToFront(e.node)
		return
	}
	c.sec.Remove(e.node)
	if c.prim.Len() >= c.primCap {
		c.evictPrimaryLocked()
	}
	e.seg = primary
	e.node = c.prim.PushFront(key)
}

func (c *Cache[K, V]) evictPrimaryLocked() {
	n := c.prim.PopBack()
	if n == nil {
		return
	}
	delete(c.m, n.Key)
	c.metrics.Evict(policy.EvictPolicy)
}

func (c *Cache[K, V]) evictSecondaryLocked() {
	n := c.sec.PopBack()
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
	c.prim.Clear()
	c.sec.Clear()
	c.hits, c.misses = 0, 0
}

// Len reports the current number of resident keys across both queues.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap reports the combined primary + secondary capacity.
func (c *Cache[K, V]) Cap() int { return c.primCap + c.secCap }

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
