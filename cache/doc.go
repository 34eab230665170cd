// Package cache provides Sharded, a composition layer over any single
// policy.Cache: an array of N independently-locked instances of the same
// configured policy, hashed by key.
//
// Each policy instance is single-lock and makes no ordering promise
// relative to any other instance. Sharded is a pure composition on top of
// that contract rather than a new policy: it does not change any
// individual shard's linearizability, it only reduces lock contention for
// callers who don't need a single global order across all keys.
package cache
