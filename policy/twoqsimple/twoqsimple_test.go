package twoqsimple

import "testing"

func TestInvalidConfiguration(t *testing.T) {
	if _, err := New[string, int](Config{PrimarySize: 0, SecondarySize: 1}); err == nil {
		t.Fatalf("PrimarySize: 0 should be rejected")
	}
	if _, err := New[string, int](Config{PrimarySize: 1, SecondarySize: 0}); err == nil {
		t.Fatalf("SecondarySize: 0 should be rejected")
	}
}

// 2Q-simple(1,1): put k1; get k1 (promotes to primary); put k2 (secondary);
// put k3 (evicts k2 from secondary); get k2 -> miss; get k1 -> 1;
// get k3 -> 3.
func TestTwoQSimpleScenario(t *testing.T) {
	c, err := New[string, int](Config{PrimarySize: 1, SecondarySize: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.Put("k1", 1)
	if v, ok := c.Get("k1"); !ok || v != 1 {
		t.Fatalf("get k1 = (%d, %v), want (1, true)", v, ok)
	}
	c.Put("k2", 2)
	c.Put("k3", 3) // evicts k2 from secondary; k1 stays in primary

	if _, ok := c.Get("k2"); ok {
		t.Fatalf("k2 should have been evicted")
	}
	if v, ok := c.Get("k1"); !ok || v != 1 {
		t.Fatalf("get k1 = (%d, %v), want (1, true)", v, ok)
	}
	if v, ok := c.Get("k3"); !ok || v != 3 {
		t.Fatalf("get k3 = (%d, %v), want (3, true)", v, ok)
	}
}

func TestSecondaryHitPromotesAndEvictsPrimaryIfFull(t *testing.T) {
	c, _ := New[string, int](Config{PrimarySize: 1, SecondarySize: 2})

	c.Put("a", 1)
	c.Get("a") // a promoted to primary

	c.Put("b", 2) // secondary
	c.Get("b")    // promotes b; primary full of a -> evicts a

	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should have been evicted from primary to make room for b")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("get b = (%d, %v), want (2, true)", v, ok)
	}
}
