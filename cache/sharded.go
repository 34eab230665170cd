package cache

import (
	"context"

	"github.com/IvanBrykalov/cachekit/internal/singleflight"
	"github.com/IvanBrykalov/cachekit/internal/util"
	"github.com/IvanBrykalov/cachekit/policy"
)

// Sharded composes N independently-locked policy.Cache[K, V] instances,
// all built from the same Factory, and routes each key to one shard by
// hash. The zero value is not useful; build one with NewSharded.
type Sharded[K comparable, V any] struct {
	shards []policy.Cache[K, V]

	// Aggregate hit/miss counters shared by all shards, padded to a full
	// cache line each so updates to one counter don't false-share with the
	// other.
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64

	sf singleflight.Group[K, V]
}

// NewSharded validates opt and constructs a Sharded cache.
func NewSharded[K comparable, V any](opt Options[K, V]) (*Sharded[K, V], error) {
	if opt.New == nil {
		return nil, policy.NewConfigError("New", "must be set")
	}
	m := opt.Metrics
	if m == nil {
		m = policy.NoopMetrics{}
	}
	n := opt.Shards
	if n <= 0 {
		n = util.ReasonableShardCount()
	}

	shards := make([]policy.Cache[K, V], n)
	for i := range shards {
		s, err := opt.New(m)
		if err != nil {
			return nil, err
		}
		shards[i] = s
	}
	return &Sharded[K, V]{shards: shards}, nil
}

func (c *Sharded[K, V]) shardFor(k K) policy.Cache[K, V] {
	h := util.Fnv64a(k)
	return c.shards[util.ShardIndex(h, len(c.shards))]
}

// Get returns k's value from its shard, applying that shard's own
// reorder/promotion semantics on a hit.
func (c *Sharded[K, V]) Get(k K) (V, bool) {
	v, ok := c.shardFor(k).Get(k)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put inserts or updates k in its shard.
func (c *Sharded[K, V]) Put(k K, v V) { c.shardFor(k).Put(k, v) }

// Clear empties every shard and resets the aggregate hit/miss counters.
func (c *Sharded[K, V]) Clear() {
	for _, s := range c.shards {
		s.Clear()
	}
	c.hits.Store(0)
	c.misses.Store(0)
}

// Len sums the resident key count across all shards.
func (c *Sharded[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Cap sums the configured capacity across all shards, or
// policy.Unbounded if any shard is unbounded.
func (c *Sharded[K, V]) Cap() int {
	total := 0
	for _, s := range c.shards {
		cp := s.Cap()
		if cp == policy.Unbounded {
			return policy.Unbounded
		}
		total += cp
	}
	return total
}

// Hits reports the aggregate hit count since construction or the last
// Clear.
func (c *Sharded[K, V]) Hits() uint64 { return c.hits.Load() }

// Misses reports the aggregate miss count since construction or the last
// Clear.
func (c *Sharded[K, V]) Misses() uint64 { return c.misses.Load() }

// GetOrLoad returns k's value, loading it via load on miss. Concurrent
// loads for the same key are coalesced via internal/singleflight so load
// runs at most once per miss even under contention.
func (c *Sharded[K, V]) GetOrLoad(ctx context.Context, k K, load func(context.Context, K) (V, error)) (V, error) {
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	return c.sf.Do(ctx, k, func() (V, error) {
		if v, ok := c.Get(k); ok {
			return v, nil
		}
		v, err := load(ctx, k)
		if err == nil {
			c.Put(k, v)
		}
		return v, err
	})
}

var _ Cache[int, int] = (*Sharded[int, int])(nil)
