// Package slru implements Segmented LRU: two disjoint LRU segments,
// probationary and protected. A key is admitted into probationary and only
// earns a protected slot on its first hit; protected overflow demotes the
// protected LRU entry back into probationary rather than evicting it.
package slru

import (
	"sync"

	"github.com/IvanBrykalov/cachekit/internal/list"
	"github.com/IvanBrykalov/cachekit/policy"
)

type segment int

const (
	probationary segment = iota
	protected
)

type entry[K comparable, V any] struct {
	value V
	seg   segment
	node  *list.Node[K]
}

// Cache is a fixed-capacity SLRU cache. The zero value is not useful;
// build one with New.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	protCap int
	probCap int

	m    map[K]*entry[K, V]
	prot *list.List[K] // head = MRU, tail = LRU
	prob *list.List[K] // head = MRU, tail = LRU

	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures an SLRU cache. Both sizes must be >= 1.
type Config struct {
	ProtectedSize    int
	ProbationarySize int
	Metrics          policy.Metrics
}

// New validates cfg and constructs an SLRU cache.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if cfg.ProtectedSize < 1 {
		return nil, policy.NewConfigError("ProtectedSize", "must be >= 1")
	}
	if cfg.ProbationarySize < 1 {
		return nil, policy.NewConfigError("ProbationarySize", "must be >= 1")
	}
	m := cfg.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	return &Cache[K, V]{
		protCap: cfg.ProtectedSize,
		probCap: cfg.ProbationarySize,
		m:       make(map[K]*entry[K, V]),
		prot:    list.New[K](),
		prob:    list.New[K](),
		metrics: m,
	}, nil
}

// Get returns key's value. A protected hit moves the entry to protected's
// MRU end; a probationary hit promotes the entry to protected, demoting
// protected's current LRU entry back into probationary if protected was
// full.
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

// Put inserts key if absent (admitting to probationary, evicting
// probationary's LRU entry first if full), or replaces its value if
// already present. An existing-key Put reorders exactly as Get would
// (including probationary-to-protected promotion): the common contract
// treats a write as evidence of use like any other on-access reorder.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok {
		e.value = value
		c.touchLocked(e, key)
		return
	}

	if c.prob.Len() >= c.probCap {
		c.evictProbationaryLocked()
	}
	n := c.prob.PushFront(key)
	c.m[key] = &entry[K, V]{value: value, seg: probationary, node: n}
	c.metrics.Size(len(c.m))
}

// touchLocked applies on-access reorder/promotion for an existing entry.
func (c *Cache[K, V]) touchLocked(e *entry[K, V], key K) {
	if e.seg == protected {
		c.prot.MoveToFront(e.node)
		return
	}
	c.prob.Remove(e.node)
	if c.prot.Len() >= c.protCap {
		c.demoteProtectedTailLocked()
	}
	e.seg = protected
	e.node = c.prot.PushFront(key)
}

// demoteProtectedTailLocked moves protected's LRU entry back into
// probationary (which has just lost a slot to the promotion in progress,
// so the demoted entry always fits).
func (c *Cache[K, V]) demoteProtectedTailLocked() {
	n := c.prot.PopBack()
	if n == nil {
		return
	}
	e := c.m[n.Key]
	e.seg = probationary
	e.node = c.prob.PushFront(n.Key)
}

func (c *Cache[K, V]) evictProbationaryLocked() {
	n := c.prob.PopBack()
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
	c.prot.Clear()
	c.prob.Clear()
	c.hits, c.misses = 0, 0
}

// Len reports the current number of resident keys across both segments.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap reports the combined protected + probationary capacity.
func (c *Cache[K, V]) Cap() int { return c.protCap + c.probCap }

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
