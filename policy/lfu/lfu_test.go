package lfu

import "testing"

func TestInvalidConfiguration(t *testing.T) {
	if _, err := New[string, int](Config{Size: 0}); err == nil {
		t.Fatalf("Size: 0 should be rejected")
	}
}

// LFU(2): put a; put b; get a (a's count=2, b's count=1); put c (evicts b,
// the sole lowest-count key); get a->1; get c->3; get b->miss.
func TestLFUScenario(t *testing.T) {
	c, err := New[string, int](Config{Size: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // a's count is now 2, b's stays at 1

	c.Put("c", 3) // b is the sole member of the lowest-count bucket

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("get a = (%d, %v), want (1, true)", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("get c = (%d, %v), want (3, true)", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted (lowest count)")
	}
}

func TestPutOnExistingBumpsCountWithoutGrowing(t *testing.T) {
	c, _ := New[string, int](Config{Size: 2})
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10) // re-put bumps a's count, same as a Get would

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	c.Put("c", 3) // b is still the sole lowest-count key
	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Fatalf("get a = (%d, %v), want (10, true)", v, ok)
	}
}

func TestClear(t *testing.T) {
	c, _ := New[string, int](Config{Size: 2})
	c.Put("a", 1)
	c.Get("a")
	c.Get("missing")

	c.Clear()
	if c.Len() != 0 || c.Hits() != 0 || c.Misses() != 0 {
		t.Fatalf("Clear left state: len=%d hits=%d misses=%d", c.Len(), c.Hits(), c.Misses())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should be gone after Clear")
	}
}

func TestSizeOneEvictsImmediately(t *testing.T) {
	c, _ := New[string, int](Config{Size: 1})
	c.Put("a", 1)
	c.Put("b", 2)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should have been evicted by the second put")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("get b = (%d, %v), want (2, true)", v, ok)
	}
}
