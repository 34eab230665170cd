// Package memoize layers argument-to-key fingerprinting, hit/miss
// callbacks, and statistics exposure on top of any policy.Cache, in the
// style of a `cache.me`-like memoizing decorator — but without
// signature-introspecting reflection: callers pass their positional/named
// arguments explicitly instead of Wrap inspecting an arbitrary function's
// parameter list.
package memoize

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/IvanBrykalov/cachekit/key"
	"github.com/IvanBrykalov/cachekit/policy"
)

// Func is a memoized computation. args/kwargs are the same shapes key.Make
// consumes, so the key built for lookup is exactly the key built for the
// eventual Put.
type Func[V any] func(ctx context.Context, args []any, kwargs []key.KWArg) (V, error)

// Stats bundles hits/misses/current_size/max_size together: callers of a
// memoizing wrapper overwhelmingly want all four at once rather than four
// separate accessor calls.
type Stats struct {
	Hits        uint64
	Misses      uint64
	CurrentSize int
	MaxSize     int
}

// Wrapper memoizes Func against a policy.Cache keyed by the assembled
// key.Key (or a fast-path scalar). Concurrent calls for the same key are
// coalesced via singleflight, so Func runs at most once per miss even
// under contention — the same role internal/singleflight plays for the
// cache package's GetOrLoad, but via golang.org/x/sync/singleflight since
// memoize only ever deals in `any` keys and needs no generic Group.
type Wrapper[V any] struct {
	cache  policy.Cache[any, V]
	fn     Func[V]
	typed  bool
	onHit  func(k any)
	onMiss func(k any)
	sf     singleflight.Group
}

// Option configures a Wrapper at construction.
type Option[V any] func(*Wrapper[V])

// WithTyped makes the key construction distinguish arguments by type as
// well as value.
func WithTyped[V any](typed bool) Option[V] {
	return func(w *Wrapper[V]) { w.typed = typed }
}

// WithOnHit registers a callback invoked (outside the cache's lock) every
// time Call resolves from the cache, mirroring cache.me's on_hit
// constructor parameter.
func WithOnHit[V any](f func(k any)) Option[V] {
	return func(w *Wrapper[V]) { w.onHit = f }
}

// WithOnMiss registers a callback invoked every time Call must invoke the
// underlying Func, mirroring cache.me's on_miss constructor parameter.
func WithOnMiss[V any](f func(k any)) Option[V] {
	return func(w *Wrapper[V]) { w.onMiss = f }
}

// Wrap builds a Wrapper around fn, backed by c.
func Wrap[V any](c policy.Cache[any, V], fn Func[V], opts ...Option[V]) *Wrapper[V] {
	w := &Wrapper[V]{cache: c, fn: fn}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Call returns the memoized result for (args, kwargs), computing and
// caching it on a miss. Concurrent Calls for the same key share a single
// invocation of fn.
func (w *Wrapper[V]) Call(ctx context.Context, args []any, kwargs []key.KWArg) (V, error) {
	k := key.Make(args, kwargs, w.typed)

	if v, ok := w.cache.Get(k); ok {
		if w.onHit != nil {
			w.onHit(k)
		}
		return v, nil
	}
	if w.onMiss != nil {
		w.onMiss(k)
	}

	// singleflight.Group keys on string; the key.Key/scalar representation
	// already round-trips through %v deterministically (key.Make's job is
	// exactly to make equal inputs format identically).
	sfKey := fmt.Sprintf("%v", k)
	vAny, err, _ := w.sf.Do(sfKey, func() (any, error) {
		if v, ok := w.cache.Get(k); ok {
			return v, nil
		}
		v, err := w.fn(ctx, args, kwargs)
		if err != nil {
			return v, err
		}
		w.cache.Put(k, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return vAny.(V), nil
}

// Peek looks up (args, kwargs) without invoking fn on a miss, returning
// sentinel in that case. Equality with sentinel must be checked by
// identity (e.g. a caller-held *struct{}), not value: a memoized Func may
// legitimately return a zero/nil V that a value-based miss check would
// misreport as absent.
func (w *Wrapper[V]) Peek(args []any, kwargs []key.KWArg, sentinel any) any {
	k := key.Make(args, kwargs, w.typed)
	if v, ok := w.cache.Get(k); ok {
		return v
	}
	return sentinel
}

// Clear empties the underlying cache and resets its hit/miss counters.
func (w *Wrapper[V]) Clear() { w.cache.Clear() }

// Stats snapshots hits/misses/current_size/max_size in one call.
func (w *Wrapper[V]) Stats() Stats {
	return Stats{
		Hits:        w.cache.Hits(),
		Misses:      w.cache.Misses(),
		CurrentSize: w.cache.Len(),
		MaxSize:     w.cache.Cap(),
	}
}

// DynamicMethods is a no-op extension seam: a policy may advertise extra
// method names for the wrapper to expose. None of this module's policies
// use it.
func (w *Wrapper[V]) DynamicMethods() []string { return nil }
