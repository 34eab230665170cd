// Package key builds hashable, equality-comparable cache keys out of a
// positional argument tuple plus an (optional) named-argument list, in
// the style of functools._make_key.
//
// Go's map keys must be comparable, so the assembled (non-fast-path) key
// is a small struct wrapping a single precomputed string: the expensive
// part (walking heterogeneous args and formatting them) happens once at
// construction, and Go's built-in map then hashes that string per lookup
// exactly as it would for any other string key (see DESIGN.md).
package key

import (
	"fmt"
	"strings"
)

// KWArg is one named argument. Named arguments are supplied as an ordered
// slice rather than a map so callers control iteration order, which Go
// maps do not provide deterministically.
type KWArg struct {
	Name  string
	Value any
}

// Key is the assembled composite cache key produced by Make when the fast
// path (see below) does not apply. It is comparable (a single string
// field) so it can be used directly as a map key.
type Key struct {
	repr string
}

// String returns the canonical representation Key was built from. Two
// equal argument sequences always produce Keys with equal String().
func (k Key) String() string { return k.repr }

const (
	sepArg   = "\x1f"
	markKW   = "\x00KW\x00"
	markType = "\x00TYPED\x00"
)

// Make builds a cache key from a positional argument tuple and an
// optional ordered set of named arguments.
//
// Fast path: if there are no named arguments, typed is false, and args
// has exactly one element of a directly hashable scalar kind, that
// element is returned unchanged, so single-argument calls get a key
// usable directly as a policy.Cache[any, V] key without ever
// constructing a Key. The fast path covers Go's directly hashable scalar
// kinds (all int/uint widths, float32/64, string, bool, and nil) — see
// DESIGN.md.
func Make(args []any, kwargs []KWArg, typed bool) any {
	if len(kwargs) == 0 && !typed && len(args) == 1 && isFastHashable(args[0]) {
		return args[0]
	}

	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteString(sepArg)
		}
		writeValue(&b, a)
	}
	if len(kwargs) > 0 {
		b.WriteString(markKW)
		for i, kw := range kwargs {
			if i > 0 {
				b.WriteString(sepArg)
			}
			b.WriteString(kw.Name)
			b.WriteByte('=')
			writeValue(&b, kw.Value)
		}
	}
	if typed {
		b.WriteString(markType)
		for i, a := range args {
			if i > 0 {
				b.WriteString(sepArg)
			}
			b.WriteString(typeTag(a))
		}
		if len(kwargs) > 0 {
			b.WriteString(sepArg)
			for i, kw := range kwargs {
				if i > 0 {
					b.WriteString(sepArg)
				}
				b.WriteString(typeTag(kw.Value))
			}
		}
	}
	return Key{repr: b.String()}
}

// isFastHashable reports whether v is one of Go's directly hashable
// scalar kinds, eligible for the fast-path singleton key.
func isFastHashable(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64, string, bool:
		return true
	default:
		return false
	}
}

func writeValue(b *strings.Builder, v any) {
	fmt.Fprintf(b, "%#v", v)
}

func typeTag(v any) string {
	return fmt.Sprintf("%T", v)
}
