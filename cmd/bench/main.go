// Command bench runs a synthetic workload against a sharded cache and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/cachekit/cache"
	"github.com/IvanBrykalov/cachekit/internal/util"
	pmet "github.com/IvanBrykalov/cachekit/metrics/prom"
	"github.com/IvanBrykalov/cachekit/policy"
	"github.com/IvanBrykalov/cachekit/policy/fifo"
	"github.com/IvanBrykalov/cachekit/policy/lfu"
	"github.com/IvanBrykalov/cachekit/policy/lru"
	"github.com/IvanBrykalov/cachekit/policy/mq"
	"github.com/IvanBrykalov/cachekit/policy/slru"
	"github.com/IvanBrykalov/cachekit/policy/tlru"
	"github.com/IvanBrykalov/cachekit/policy/twoqfull"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newFactory builds the cache.Factory for the named policy. For SLRU and
// 2Q, size is split across the policy's internal segments; MQ gets size for
// its main queues plus a history buffer of size/4 on top.
func newFactory(name string, size int) (cache.Factory[string, string], error) {
	switch name {
	case "lru":
		return func(m policy.Metrics) (policy.Cache[string, string], error) {
			return lru.New[string, string](lru.Config{Size: size, Metrics: m})
		}, nil
	case "fifo":
		return func(m policy.Metrics) (policy.Cache[string, string], error) {
			return fifo.New[string, string](fifo.Config{Size: size, Metrics: m})
		}, nil
	case "lfu":
		return func(m policy.Metrics) (policy.Cache[string, string], error) {
			return lfu.New[string, string](lfu.Config{Size: size, Metrics: m})
		}, nil
	case "slru":
		return func(m policy.Metrics) (policy.Cache[string, string], error) {
			return slru.New[string, string](slru.Config{
				ProtectedSize: size / 2, ProbationarySize: size - size/2, Metrics: m,
			})
		}, nil
	case "2q":
		return func(m policy.Metrics) (policy.Cache[string, string], error) {
			return twoqfull.New[string, string](twoqfull.Config{
				PrimarySize: size / 2, SecondaryInSize: size / 4, SecondaryOutSize: size / 4, Metrics: m,
			})
		}, nil
	case "tlru":
		return func(m policy.Metrics) (policy.Cache[string, string], error) {
			return tlru.New[string, string](tlru.Config{Size: size, ExpireTime: 30, AccessBased: true, Metrics: m})
		}, nil
	case "mq":
		return func(m policy.Metrics) (policy.Cache[string, string], error) {
			return mq.New[string, string](mq.Config{Size: size, BufferSize: size / 4, ExpireTime: 30, Metrics: m})
		}, nil
	default:
		return nil, fmt.Errorf("unknown policy: %q (use lru, fifo, lfu, slru, 2q, tlru or mq)", name)
	}
}

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		shards   = flag.Int("shards", 0, "number of shards (0=auto)")
		pol      = flag.String("policy", "lru", "eviction policy: lru | fifo | lfu | slru | 2q | tlru | mq")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "cachekit", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	nShards := *shards
	if nShards <= 0 {
		nShards = util.ReasonableShardCount()
	}
	perShardCap := *capacity / nShards
	if perShardCap < 1 {
		perShardCap = 1
	}
	factory, err := newFactory(*pol, perShardCap)
	if err != nil {
		log.Fatal(err)
	}
	c, err := cache.NewSharded[string, string](cache.Options[string, string]{
		Shards:  nShards,
		Metrics: metrics,
		New:     factory,
	})
	if err != nil {
		log.Fatalf("NewSharded: %v", err)
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Put(k, "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if _, ok := c.Get(keyByZipf()); ok {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					k := keyByZipf()
					c.Put(k, "v"+strconv.Itoa(localR.Int()))
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		*pol, *capacity, *shards, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
	fmt.Printf("Len()=%d\n", c.Len())
}
