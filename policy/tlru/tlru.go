// Package tlru implements Time-aware LRU: every entry carries an expiry
// deadline renewed on access (unless ResetOnAccess is false), and an
// optional size bound additionally evicts by LRU order. With no size
// bound, TLRU degenerates to pure time-based expiry.
package tlru

import (
	"sync"
	"time"

	"github.com/IvanBrykalov/cachekit/internal/list"
	"github.com/IvanBrykalov/cachekit/policy"
)

type entry[K comparable, V any] struct {
	value      V
	sizeNode   *list.Node[K] // nil when unbounded
	expireNode *list.Node[K]
}

// Cache is a TLRU cache, optionally size-bounded. The zero value is not
// useful; build one with New.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	window        int64
	sizeCap       int // 0 means unbounded
	accessBased   bool
	resetOnAccess bool
	clock         int64

	m      map[K]*entry[K, V]
	sizes  *list.List[K] // head = MRU, tail = LRU; nil when unbounded
	expiry *list.List[K] // head = soonest-renewed, tail = soonest-to-expire

	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures a TLRU cache. ExpireTime must be >= 1. Size is
// optional — 0 means unbounded (pure time-based expiry); if set it must
// be >= 1. AccessBased selects a logical per-operation clock instead of
// the wall clock (default false). ResetOnAccess, when true (the default),
// refreshes an entry's expiry deadline on every Get/Put hit.
type Config struct {
	ExpireTime    int64
	Size          int
	AccessBased   bool
	ResetOnAccess *bool
	Metrics       policy.Metrics
}

// New validates cfg and constructs a TLRU cache.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if cfg.ExpireTime < 1 {
		return nil, policy.NewConfigError("ExpireTime", "must be >= 1")
	}
	if cfg.Size < 0 {
		return nil, policy.NewConfigError("Size", "must be >= 1 or 0 (unbounded)")
	}
	m := cfg.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	reset := true
	if cfg.ResetOnAccess != nil {
		reset = *cfg.ResetOnAccess
	}
	c := &Cache[K, V]{
		window:        cfg.ExpireTime,
		sizeCap:       cfg.Size,
		accessBased:   cfg.AccessBased,
		resetOnAccess: reset,
		m:             make(map[K]*entry[K, V]),
		expiry:        list.New[K](),
		metrics:       m,
	}
	if cfg.Size > 0 {
		c.sizes = list.New[K]()
	}
	return c, nil
}

// Get advances the clock, sweeps expired entries, then returns key's
// value on a live hit. A hit reorders in the size list (if bounded) and,
// if ResetOnAccess, refreshes the expiry deadline.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advanceLocked()
	c.sweepExpiredLocked()

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

// Put advances the clock, sweeps expired entries, then inserts key if
// absent (evicting the size-LRU tail first if bounded and full), or
// updates it in place with the same reorder/reset behavior as Get.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advanceLocked()
	c.sweepExpiredLocked()

	if e, ok := c.m[key]; ok {
		e.value = value
		c.touchLocked(e, key)
		return
	}

	if c.sizeCap > 0 && len(c.m) >= c.sizeCap {
		c.evictSizeTailLocked()
	}

	ne := &entry[K, V]{value: value}
	if c.sizes != nil {
		ne.sizeNode = c.sizes.PushFront(key)
	}
	ne.expireNode = c.expiry.PushFrontExpire(key, c.clock+c.window)
	c.m[key] = ne
	c.metrics.Size(len(c.m))
}

func (c *Cache[K, V]) touchLocked(e *entry[K, V], key K) {
	if e.sizeNode != nil {
		c.sizes.MoveToFront(e.sizeNode)
	}
	if c.resetOnAccess {
		c.expiry.Remove(e.expireNode)
		e.expireNode = c.expiry.PushFrontExpire(key, c.clock+c.window)
	}
}

// sweepExpiredLocked evicts every entry whose deadline has already
// elapsed. The expiry list's tail always holds the soonest-to-expire
// entry: renewals always move a node to the front with a deadline no
// earlier than whatever is already linked, so expiry only ever decreases
// walking from front to back.
func (c *Cache[K, V]) sweepExpiredLocked() {
	for {
		n := c.expiry.Back()
		if n == nil || n.Expire >= c.clock {
			return
		}
		c.expiry.Remove(n)
		e := c.m[n.Key]
		if e.sizeNode != nil {
			c.sizes.Remove(e.sizeNode)
		}
		delete(c.m, n.Key)
		c.metrics.Evict(policy.EvictExpiry)
	}
}

func (c *Cache[K, V]) evictSizeTailLocked() {
	n := c.sizes.PopBack()
	if n == nil {
		return
	}
	e := c.m[n.Key]
	c.expiry.Remove(e.expireNode)
	delete(c.m, n.Key)
	c.metrics.Evict(policy.EvictPolicy)
}

func (c *Cache[K, V]) advanceLocked() {
	if c.accessBased {
		c.clock++
		return
	}
	c.clock = time.Now().UnixNano()
}

// Clear empties the cache, resets the hit/miss counters, and resets the
// internal clock to zero.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[K]*entry[K, V])
	c.expiry.Clear()
	if c.sizes != nil {
		c.sizes.Clear()
	}
	c.hits, c.misses = 0, 0
	c.clock = 0
}

// Len reports the current number of resident keys. Expired entries are
// removed by the sweep at the start of each Get and Put, so an entry whose
// deadline has passed since the last Get or Put is still counted.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap reports the configured size bound, or policy.Unbounded if TLRU was
// constructed without one.
func (c *Cache[K, V]) Cap() int {
	if c.sizeCap == 0 {
		return policy.Unbounded
	}
	return c.sizeCap
}

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
