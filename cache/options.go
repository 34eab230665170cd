package cache

import "github.com/IvanBrykalov/cachekit/policy"

// Factory builds one shard's policy instance. m is the shared Metrics
// passed through from Options — every shard reports into the same
// Metrics sink, so aggregate counters reflect the whole Sharded cache
// rather than one shard.
//
// A Factory closes over whatever per-shard Config the chosen policy
// needs; see the policy/... subpackages' Config types. For example, an
// LRU-backed Sharded[string, int] of 4 shards × 256 entries each:
//
//	cache.NewSharded[string, int](cache.Options[string, int]{
//	    Shards: 4,
//	    New: func(m policy.Metrics) (policy.Cache[string, int], error) {
//	        return lru.New[string, int](lru.Config{Size: 256, Metrics: m})
//	    },
//	})
type Factory[K comparable, V any] func(m policy.Metrics) (policy.Cache[K, V], error)

// Options configures a Sharded cache.
type Options[K comparable, V any] struct {
	// Shards is the number of independently-locked policy instances. If
	// <= 0, util.ReasonableShardCount() picks one based on GOMAXPROCS.
	Shards int

	// Metrics receives Hit/Miss/Evict/Size signals from every shard. A nil
	// Metrics is replaced by policy.NoopMetrics.
	Metrics policy.Metrics

	// New constructs one shard's policy instance. Required.
	New Factory[K, V]
}
