// Package twoqfull implements the full three-queue 2Q eviction policy:
// primary (LRU), secondary-in (FIFO, fresh arrivals) and secondary-out
// (FIFO, spillover from secondary-in). A secondary-out hit is the only
// path back into primary; secondary-in hits are read in place.
package twoqfull

import (
	"sync"

	"github.com/IvanBrykalov/cachekit/internal/list"
	"github.com/IvanBrykalov/cachekit/policy"
)

type segment int

const (
	secondaryIn segment = iota
	secondaryOut
	primary
)

type entry[K comparable, V any] struct {
	value V
	seg   segment
	node  *list.Node[K]
}

// Cache is a fixed-capacity 2Q-full cache. The zero value is not useful;
// build one with New.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	primCap   int
	secInCap  int
	secOutCap int

	m     map[K]*entry[K, V]
	prim  *list.List[K] // LRU: head = MRU, tail = LRU
	secIn *list.List[K] // FIFO: head = newest, tail = oldest
	secOt *list.List[K] // FIFO: head = newest, tail = oldest

	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures a 2Q-full cache. All three sizes must be >= 1.
type Config struct {
	PrimarySize      int
	SecondaryInSize  int
	SecondaryOutSize int
	Metrics          policy.Metrics
}

// New validates cfg and constructs a 2Q-full cache.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if cfg.PrimarySize < 1 {
		return nil, policy.NewConfigError("PrimarySize", "must be >= 1")
	}
	if cfg.SecondaryInSize < 1 {
		return nil, policy.NewConfigError("SecondaryInSize", "must be >= 1")
	}
	if cfg.SecondaryOutSize < 1 {
		return nil, policy.NewConfigError("SecondaryOutSize", "must be >= 1")
	}
	m := cfg.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	return &Cache[K, V]{
		primCap:   cfg.PrimarySize,
		secInCap:  cfg.SecondaryInSize,
		secOutCap: cfg.SecondaryOutSize,
		m:         make(map[K]*entry[K, V]),
		prim:      list.New[K](),
		secIn:     list.New[K](),
		secOt:     list.New[K](),
		metrics:   m,
	}, nil
}

// Get returns key's value. A primary hit reorders within primary. A
// secondary-in hit is returned as-is without reordering. A secondary-out
// hit promotes the key into primary, evicting primary's LRU entry first
// if it was full.
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
	switch e.seg {
	case primary:
		c.prim.MoveToFront(e.node)
	case secondaryOut:
		c.promoteToPrimaryLocked(e, key)
	case secondaryIn:
		// no reorder: secondary-in is read-only FIFO on a get-hit.
	}
	c.hits++
	c.metrics.Hit()
	return e.value, true
}

// Put inserts key if absent (admitting to secondary-in, spilling its
// oldest entry into secondary-out first if full — itself evicting
// secondary-out's oldest entry first if that was full), or updates an
// existing key. An existing secondary-in key is updated in place and
// reordered (a write counts as fresh use, see SPEC_FULL.md's resolution of
// this Open Question); an existing secondary-out key is promoted to
// primary carrying the new value, exactly like a Get-hit there.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok {
		e.value = value
		switch e.seg {
		case primary:
			c.prim.MoveToFront(e.node)
		case secondaryIn:
			c.secIn.MoveToFront(e.node)
		case secondaryOut:
			c.promoteToPrimaryLocked(e, key)
		}
		return
	}

	if c.secIn.Len() >= c.secInCap {
		c.spillSecondaryInLocked()
	}
	n := c.secIn.PushFront(key)
	c.m[key] = &entry[K, V]{value: value, seg: secondaryIn, node: n}
	c.metrics.Size(len(c.m))
}

// promoteToPrimaryLocked moves e (currently in secondary-out) into
// primary, evicting primary's LRU entry first if it was full.
func (c *Cache[K, V]) promoteToPrimaryLocked(e *entry[K, V], key K) {
	c.secOt.Remove(e.node)
	if c.prim.Len() >= c.primCap {
		c.evictPrimaryLocked()
	}
	e.seg = primary
	e.node = c.prim.PushFront(key)
}

// spillSecondaryInLocked moves secondary-in's oldest entry into
// secondary-out, evicting secondary-out's oldest entry first if it was
// full (a real eviction: that key leaves the cache entirely).
func (c *Cache[K, V]) spillSecondaryInLocked() {
	n := c.secIn.PopBack()
	if n == nil {
		return
	}
	e := c.m[n.Key]
	if c.secOt.Len() >= c.secOutCap {
		c.evictSecondaryOutLocked()
	}
	e.seg = secondaryOut
	e.node = c.secOt.PushFront(n.Key)
}

func (c *Cache[K, V]) evictPrimaryLocked() {
	n := c.prim.PopBack()
	if n == nil {
		return
	}
	delete(c.m, n.Key)
	c.metrics.Evict(policy.EvictPolicy)
}

func (c *Cache[K, V]) evictSecondaryOutLocked() {
	n := c.secOt.PopBack()
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
	c.secIn.Clear()
	c.secOt.Clear()
	c.hits, c.misses = 0, 0
}

// Len reports the current number of resident keys across all three queues.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap reports the combined primary + secondary-in + secondary-out
// capacity.
func (c *Cache[K, V]) Cap() int { return c.primCap + c.secInCap + c.secOutCap }

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
