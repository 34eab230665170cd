// Package mq implements the Multi-Queue eviction policy: N LRU queues
// ranked by access frequency level, backed by a FIFO history buffer that
// lets a recently evicted key re-enter the main queues without starting
// its frequency count over. Entries age downward through the queue levels
// as their expiry windows elapse.
package mq

import (
	"math/bits"
	"sync"
	"time"

	"github.com/IvanBrykalov/cachekit/internal/list"
	"github.com/IvanBrykalov/cachekit/policy"
)

// defaultNumQueues is used when Config.NumQueues is left at zero.
const defaultNumQueues = 8

type entry[K comparable, V any] struct {
	value     V
	freq      int
	level     int // valid only while resident in a main queue
	inHistory bool
	node      *list.Node[K]
}

// Cache is an MQ cache. The zero value is not useful; build one with New.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	mainCap     int
	bufCap      int
	window      int64
	numQueues   int
	levelFunc   func(freq int) int
	accessBased bool
	clock       int64

	queues     []*list.List[K] // level 0 (coldest) .. N-1 (hottest); head = MRU
	history    *list.List[K]   // FIFO: head = newest, tail = oldest
	m          map[K]*entry[K, V]
	mainCount  int
	bufCount   int

	hits    uint64
	misses  uint64
	metrics policy.Metrics
}

// Config configures an MQ cache. Size, BufferSize and ExpireTime must be
// >= 1. NumQueues must be >= 1 if set (default 8). QueueFunc maps an
// access frequency to a queue level in [0, NumQueues); the default is
// floor(log2(freq)), clamped to NumQueues-1. AccessBased (default true)
// selects a logical per-operation clock instead of the wall clock.
type Config struct {
	Size        int
	BufferSize  int
	ExpireTime  int64
	NumQueues   int
	QueueFunc   func(freq int) int
	AccessBased *bool
	Metrics     policy.Metrics
}

// New validates cfg and constructs an MQ cache.
func New[K comparable, V any](cfg Config) (*Cache[K, V], error) {
	if cfg.Size < 1 {
		return nil, policy.NewConfigError("Size", "must be >= 1")
	}
	if cfg.BufferSize < 1 {
		return nil, policy.NewConfigError("BufferSize", "must be >= 1")
	}
	if cfg.ExpireTime < 1 {
		return nil, policy.NewConfigError("ExpireTime", "must be >= 1")
	}
	n := cfg.NumQueues
	if n == 0 {
		n = defaultNumQueues
	}
	if n < 1 {
		return nil, policy.NewConfigError("NumQueues", "must be >= 1")
	}
	m := cfg.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	accessBased := true
	if cfg.AccessBased != nil {
		accessBased = *cfg.AccessBased
	}
	lf := cfg.QueueFunc
	if lf == nil {
		lf = defaultLevelFunc
	}

	queues := make([]*list.List[K], n)
	for i := range queues {
		queues[i] = list.New[K]()
	}
	return &Cache[K, V]{
		mainCap:     cfg.Size,
		bufCap:      cfg.BufferSize,
		window:      cfg.ExpireTime,
		numQueues:   n,
		levelFunc:   lf,
		accessBased: accessBased,
		queues:      queues,
		history:     list.New[K](),
		m:           make(map[K]*entry[K, V]),
		metrics:     m,
	}, nil
}

// defaultLevelFunc is floor(log2(freq)), clamped by the caller to
// [0, NumQueues-1].
func defaultLevelFunc(freq int) int {
	if freq < 1 {
		freq = 1
	}
	return bits.Len(uint(freq)) - 1
}

func (c *Cache[K, V]) levelLocked(freq int) int {
	lvl := c.levelFunc(freq)
	if lvl < 0 {
		lvl = 0
	}
	if lvl > c.numQueues-1 {
		lvl = c.numQueues - 1
	}
	return lvl
}

// Get advances the clock, then returns key's value on a hit: frequency is
// incremented, the entry's level recomputed, and it's re-linked at the
// head of the appropriate queue with a renewed expiry. A history hit
// first revives the entry back into the main queues (spilling a main
// victim into history if main was full). After relinking, every queue above
// the coldest is swept for entries whose expiry has elapsed, and those are
// demoted one level down.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advanceLocked()

	e, ok := c.m[key]
	if !ok {
		c.misses++
		c.metrics.Miss()
		var zero V
		return zero, false
	}

	if e.inHistory {
		c.history.Remove(e.node)
		c.bufCount--
		e.inHistory = false
		c.makeRoomInMainLocked()
		c.mainCount++
	} else {
		c.queues[e.level].Remove(e.node)
	}
	e.freq++
	e.level = c.levelLocked(e.freq)
	e.node = c.queues[e.level].PushFrontExpire(key, c.clock+c.window)
	c.demoteLocked()

	c.hits++
	c.metrics.Hit()
	return e.value, true
}

// Put advances the clock, then inserts key if absent (spilling a main
// victim into history first if main was full — itself evicting history's
// oldest entry first if that was full), or updates an existing key
// following the same frequency/level/demotion logic as Get.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advanceLocked()

	if e, ok := c.m[key]; ok {
		e.value = value
		if e.inHistory {
			c.history.Remove(e.node)
			c.bufCount--
			e.inHistory = false
			c.makeRoomInMainLocked()
			c.mainCount++
		} else {
			c.queues[e.level].Remove(e.node)
		}
		e.freq++
		e.level = c.levelLocked(e.freq)
		e.node = c.queues[e.level].PushFrontExpire(key, c.clock+c.window)
		c.demoteLocked()
		return
	}

	c.makeRoomInMainLocked()
	ne := &entry[K, V]{value: value, freq: 1}
	ne.level = c.levelLocked(ne.freq)
	ne.node = c.queues[ne.level].PushFrontExpire(key, c.clock+c.window)
	c.m[key] = ne
	c.mainCount++
	c.demoteLocked()
	c.metrics.Size(len(c.m))
}

// makeRoomInMainLocked spills the lowest non-empty queue's LRU tail into
// history if main is at capacity.
func (c *Cache[K, V]) makeRoomInMainLocked() {
	if c.mainCount < c.mainCap {
		return
	}
	for lvl := 0; lvl < c.numQueues; lvl++ {
		n := c.queues[lvl].PopBack()
		if n == nil {
			continue
		}
		e := c.m[n.Key]
		if c.bufCount >= c.bufCap {
			c.evictHistoryTailLocked()
		}
		e.inHistory = true
		e.node = c.history.PushFront(n.Key)
		c.bufCount++
		c.mainCount--
		c.metrics.Evict(policy.EvictPolicy)
		return
	}
}

func (c *Cache[K, V]) evictHistoryTailLocked() {
	n := c.history.PopBack()
	if n == nil {
		return
	}
	delete(c.m, n.Key)
	c.bufCount--
	c.metrics.Evict(policy.EvictPolicy)
}

// demoteLocked ages entries downward: for every level above the coldest,
// while the queue's least-recently-renewed entry has expired, it is
// popped and relinked at the head of the queue one level down with a
// renewed expiry.
func (c *Cache[K, V]) demoteLocked() {
	for lvl := 1; lvl < c.numQueues; lvl++ {
		for {
			n := c.queues[lvl].Back()
			if n == nil || n.Expire >= c.clock {
				break
			}
			c.queues[lvl].Remove(n)
			e := c.m[n.Key]
			e.level = lvl - 1
			e.node = c.queues[lvl-1].PushFrontExpire(n.Key, c.clock+c.window)
		}
	}
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

	for _, q := range c.queues {
		q.Clear()
	}
	c.history.Clear()
	c.m = make(map[K]*entry[K, V])
	c.mainCount, c.bufCount = 0, 0
	c.hits, c.misses = 0, 0
	c.clock = 0
}

// Len reports the combined number of live keys across the main queues and
// the history buffer.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Cap reports the combined main + history buffer capacity.
func (c *Cache[K, V]) Cap() int { return c.mainCap + c.bufCap }

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
