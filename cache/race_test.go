package cache_test

import (
	"context"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IvanBrykalov/cachekit/cache"
	"github.com/IvanBrykalov/cachekit/policy"
	"github.com/IvanBrykalov/cachekit/policy/lru"
)

// A mixed workload of concurrent Put/Get/Clear on random keys across
// shards. Should pass under -race without detector reports.
func TestRace_Basic(t *testing.T) {
	c, err := cache.NewSharded[string, []byte](cache.Options[string, []byte]{
		Shards: 32,
		New: func(m policy.Metrics) (policy.Cache[string, []byte], error) {
			return lru.New[string, []byte](lru.Config{Size: 256, Metrics: m})
		},
	})
	if err != nil {
		t.Fatalf("NewSharded: %v", err)
	}

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 50_000
	deadline := time.Now().Add(500 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Clear
					c.Clear()
				case 5, 6, 7, 8, 9, 10, 11, 12, 13, 14: // ~10% — Put
					c.Put(k, []byte("x"))
				default: // ~85% — Get
					c.Get(k)
				}
			}
		}(w)
	}
	wg.Wait()
}

// 100 goroutines call GetOrLoad on the same key concurrently. load should
// run at most once (singleflight coalescing).
func TestRace_GetOrLoad(t *testing.T) {
	var calls int64

	c, err := cache.NewSharded[string, string](cache.Options[string, string]{
		Shards: 8,
		New: func(m policy.Metrics) (policy.Cache[string, string], error) {
			return lru.New[string, string](lru.Config{Size: 1024, Metrics: m})
		},
	})
	if err != nil {
		t.Fatalf("NewSharded: %v", err)
	}

	load := func(_ context.Context, k string) (string, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(2 * time.Millisecond) // simulate I/O
		return "v:" + k, nil
	}

	const goroutines = 100
	key := "same-key"

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := c.GetOrLoad(context.Background(), key, load)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if v != "v:"+key {
				t.Errorf("unexpected value: %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got > 1 {
		t.Fatalf("load should run at most once, got %d", got)
	}

	if v, err := c.GetOrLoad(context.Background(), key, load); err != nil || v != "v:"+key {
		t.Fatalf("second GetOrLoad failed: v=%q err=%v", v, err)
	}
}
