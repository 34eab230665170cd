// Package policy defines the contract every eviction-policy implementation
// satisfies, plus the small set of cross-cutting types (metrics, eviction
// reasons, configuration errors) shared across all of them.
package policy

import "errors"

// Unbounded is returned by Cap() for policies with no maximum size
// (Static, and TLRU constructed without a size bound).
const Unbounded = -1

// Cache is the common contract implemented by every eviction policy in this
// module. All methods are safe for concurrent use.
//
// Get reports whether key is present (and not expired) via the boolean
// result, the idiomatic Go shape for a lookup that may legitimately miss.
type Cache[K comparable, V any] interface {
	// Get returns key's value and true on a live hit, incrementing Hits();
	// otherwise it returns the zero value and false, incrementing Misses().
	// A hit applies whatever reorder/promotion the policy defines.
	Get(key K) (V, bool)

	// Put inserts or updates key. An update reorders per the policy's
	// on-access semantics; an admission evicts first if needed so the
	// size invariant is never exceeded.
	Put(key K, value V)

	// Clear empties the cache and resets Hits()/Misses() to zero.
	Clear()

	// Len is the current number of live keys (current_size).
	Len() int

	// Cap is the configured maximum size (max_size), or Unbounded.
	Cap() int

	// Hits is the monotonically increasing hit counter since construction
	// or the last Clear.
	Hits() uint64

	// Misses is the monotonically increasing miss counter since
	// construction or the last Clear.
	Misses() uint64
}

// EvictReason explains why an entry left a cache.
type EvictReason int

const (
	// EvictPolicy — removed by the policy's own admission/replacement rule.
	EvictPolicy EvictReason = iota
	// EvictExpiry — removed because its TLRU expiry deadline elapsed. MQ
	// expiry only demotes entries, so MQ never reports this reason.
	EvictExpiry
)

// String renders a stable label, used as-is for the Prometheus "reason"
// label in metrics/prom.
func (r EvictReason) String() string {
	switch r {
	case EvictExpiry:
		return "expiry"
	default:
		return "policy"
	}
}

// Metrics receives hit/miss/eviction/size signals from a policy instance.
// A nil Metrics in a policy's Config is replaced by NoopMetrics.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics implements Metrics by discarding every signal. It is the
// default used when a Config's Metrics field is left nil.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

// ErrInvalidConfiguration is the sentinel every ConfigError wraps, so
// callers can test with errors.Is(err, policy.ErrInvalidConfiguration)
// without matching a specific parameter.
var ErrInvalidConfiguration = errors.New("cachekit: invalid configuration")

// ConfigError reports that a specific constructor parameter violated its
// documented bound. Constructors return it synchronously; the instance is
// never created.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "cachekit: invalid configuration: " + e.Param + " " + e.Reason
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// NewConfigError builds a ConfigError for the named parameter.
func NewConfigError(param, reason string) error {
	return &ConfigError{Param: param, Reason: reason}
}
