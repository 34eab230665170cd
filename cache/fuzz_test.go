//go:build go1.18

package cache_test

import (
	"strings"
	"testing"

	"github.com/IvanBrykalov/cachekit/cache"
	"github.com/IvanBrykalov/cachekit/policy"
	"github.com/IvanBrykalov/cachekit/policy/lru"
)

// Fuzz basic Put/Get round-tripping under arbitrary string inputs. Guards
// against panics and checks the universal "put then get returns what was
// put" invariant.
func FuzzSharded_PutGet(f *testing.F) {
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c, err := cache.NewSharded[string, string](cache.Options[string, string]{
			Shards: 16,
			New: func(m policy.Metrics) (policy.Cache[string, string], error) {
				return lru.New[string, string](lru.Config{Size: 16, Metrics: m})
			},
		})
		if err != nil {
			t.Fatalf("NewSharded: %v", err)
		}

		c.Put(k, v)
		if got, ok := c.Get(k); !ok || got != v {
			t.Fatalf("after Put/Get: want %q, got %q ok=%v", v, got, ok)
		}

		c.Put(k, v+"!") // update must not change residency
		if got, ok := c.Get(k); !ok || got != v+"!" {
			t.Fatalf("after update Put/Get: want %q, got %q ok=%v", v+"!", got, ok)
		}

		c.Clear()
		if _, ok := c.Get(k); ok {
			t.Fatalf("key must be absent after Clear")
		}
	})
}
