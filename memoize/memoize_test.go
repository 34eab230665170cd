package memoize

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/IvanBrykalov/cachekit/key"
	"github.com/IvanBrykalov/cachekit/policy/lru"
)

func newLRU(t *testing.T, size int) *lru.Cache[any, int] {
	t.Helper()
	c, err := lru.New[any, int](lru.Config{Size: size})
	if err != nil {
		t.Fatalf("lru.New: %v", err)
	}
	return c
}

func TestCallCachesResult(t *testing.T) {
	var calls int32
	fn := func(_ context.Context, args []any, _ []key.KWArg) (int, error) {
		atomic.AddInt32(&calls, 1)
		return args[0].(int) * 2, nil
	}
	w := Wrap[int](newLRU(t, 8), fn)

	v, err := w.Call(context.Background(), []any{21}, nil)
	if err != nil || v != 42 {
		t.Fatalf("Call = (%d, %v), want (42, nil)", v, err)
	}
	v, err = w.Call(context.Background(), []any{21}, nil)
	if err != nil || v != 42 {
		t.Fatalf("second Call = (%d, %v), want (42, nil)", v, err)
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1 (second call should hit cache)", calls)
	}
}

func TestOnHitOnMissCallbacks(t *testing.T) {
	var hits, misses int32
	fn := func(_ context.Context, args []any, _ []key.KWArg) (int, error) {
		return args[0].(int), nil
	}
	w := Wrap[int](newLRU(t, 8), fn,
		WithOnHit[int](func(any) { atomic.AddInt32(&hits, 1) }),
		WithOnMiss[int](func(any) { atomic.AddInt32(&misses, 1) }),
	)

	w.Call(context.Background(), []any{1}, nil)
	w.Call(context.Background(), []any{1}, nil)

	if misses != 1 || hits != 1 {
		t.Fatalf("misses=%d hits=%d, want 1/1", misses, hits)
	}
}

func TestConcurrentCallsCoalesce(t *testing.T) {
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(_ context.Context, args []any, _ []key.KWArg) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
			<-release
		}
		return args[0].(int), nil
	}
	w := Wrap[int](newLRU(t, 8), fn)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Call(context.Background(), []any{7}, nil)
		}()
	}

	<-started
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("fn called %d times concurrently for the same key, want 1", calls)
	}
}

func TestStatsAndClear(t *testing.T) {
	fn := func(_ context.Context, args []any, _ []key.KWArg) (int, error) {
		return args[0].(int), nil
	}
	w := Wrap[int](newLRU(t, 8), fn)

	w.Call(context.Background(), []any{1}, nil)
	w.Call(context.Background(), []any{1}, nil)
	w.Call(context.Background(), []any{2}, nil)

	st := w.Stats()
	if st.Hits != 1 || st.Misses != 2 || st.CurrentSize != 2 || st.MaxSize != 8 {
		t.Fatalf("Stats() = %+v, want Hits=1 Misses=2 CurrentSize=2 MaxSize=8", st)
	}

	w.Clear()
	st = w.Stats()
	if st.Hits != 0 || st.Misses != 0 || st.CurrentSize != 0 {
		t.Fatalf("Stats() after Clear = %+v, want all zero", st)
	}
}

func TestPeekUsesSentinelIdentity(t *testing.T) {
	fn := func(_ context.Context, args []any, _ []key.KWArg) (int, error) {
		return 0, nil // a legitimate, zero-valued cached result
	}
	w := Wrap[int](newLRU(t, 8), fn)
	sentinel := &struct{}{}

	if got := w.Peek([]any{1}, nil, sentinel); got != sentinel {
		t.Fatalf("Peek before any Call = %v, want the sentinel (identity match)", got)
	}

	w.Call(context.Background(), []any{1}, nil)
	if got := w.Peek([]any{1}, nil, sentinel); got != 0 {
		t.Fatalf("Peek after Call = %v, want the cached zero value 0, not the sentinel", got)
	}
}
