package cache

import (
	"context"

	"github.com/IvanBrykalov/cachekit/policy"
)

// Cache is the contract Sharded implements: the common policy.Cache
// surface plus GetOrLoad, a sharded-cache-specific convenience that
// composes Get/Put with a caller-supplied loader, coalescing concurrent
// loads for the same key.
type Cache[K comparable, V any] interface {
	policy.Cache[K, V]

	// GetOrLoad returns k's value, loading it via load on miss.
	// Concurrent loads for the same key are coalesced.
	GetOrLoad(ctx context.Context, k K, load func(context.Context, K) (V, error)) (V, error)
}
