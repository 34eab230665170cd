package cache_test

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/IvanBrykalov/cachekit/cache"
	"github.com/IvanBrykalov/cachekit/policy"
	"github.com/IvanBrykalov/cachekit/policy/lru"
)

// benchmarkMix exercises a read/write mix against a warm Sharded(LRU)
// cache. RunParallel spawns GOMAXPROCS goroutines; string keys include
// strconv/concat costs, which is fine for an end-to-end benchmark.
func benchmarkMix(b *testing.B, readsPct int) {
	c, err := cache.NewSharded[string, string](cache.Options[string, string]{
		Shards: 64,
		New: func(m policy.Metrics) (policy.Cache[string, string], error) {
			return lru.New[string, string](lru.Config{Size: 1_600, Metrics: m})
		},
	})
	if err != nil {
		b.Fatalf("NewSharded: %v", err)
	}

	for i := 0; i < 50_000; i++ {
		c.Put("k:"+strconv.Itoa(i), "v")
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, "v")
			}
			i++
		}
	})
}

func BenchmarkSharded_90r10w(b *testing.B) { benchmarkMix(b, 90) }
func BenchmarkSharded_50r50w(b *testing.B) { benchmarkMix(b, 50) }

// benchmarkMixInt is the same workload with int keys, removing
// strconv/alloc noise to better expose the cache hot path.
func benchmarkMixInt(b *testing.B, readsPct int) {
	c, err := cache.NewSharded[int, int](cache.Options[int, int]{
		Shards: 64,
		New: func(m policy.Metrics) (policy.Cache[int, int], error) {
			return lru.New[int, int](lru.Config{Size: 1_600, Metrics: m})
		},
	})
	if err != nil {
		b.Fatalf("NewSharded: %v", err)
	}

	for i := 0; i < 50_000; i++ {
		c.Put(i, 1)
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 16) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := i & keyMask
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Put(k, 1)
			}
			i++
		}
	})
}

func BenchmarkSharded_IntKeys_90r10w(b *testing.B) { benchmarkMixInt(b, 90) }
func BenchmarkSharded_IntKeys_50r50w(b *testing.B) { benchmarkMixInt(b, 50) }
