package list

import "testing"

func TestPushFrontOrder(t *testing.T) {
	l := New[string]()
	l.PushFront("a")
	l.PushFront("b")
	l.PushFront("c")

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	if got := l.Front().Key; got != "c" {
		t.Fatalf("Front() = %q, want c", got)
	}
	if got := l.Back().Key; got != "a" {
		t.Fatalf("Back() = %q, want a", got)
	}
}

func TestMoveToFront(t *testing.T) {
	l := New[string]()
	na := l.PushFront("a")
	l.PushFront("b")
	nc := l.PushFront("c")

	l.MoveToFront(na)
	if got := l.Front().Key; got != "a" {
		t.Fatalf("Front() = %q, want a", got)
	}

	// Moving the current front is a no-op.
	l.MoveToFront(na)
	if got := l.Front().Key; got != "a" {
		t.Fatalf("Front() after redundant move = %q, want a", got)
	}

	l.MoveToFront(nc)
	if got := l.Front().Key; got != "c" {
		t.Fatalf("Front() = %q, want c", got)
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
}

func TestRemoveMiddle(t *testing.T) {
	l := New[int]()
	n1 := l.PushFront(1)
	n2 := l.PushFront(2)
	n3 := l.PushFront(3)
	_ = n1

	l.Remove(n2)
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if l.Front() != n3 {
		t.Fatalf("Front() changed unexpectedly after removing middle node")
	}
	if l.Back().Key != 1 {
		t.Fatalf("Back().Key = %d, want 1", l.Back().Key)
	}
}

func TestPopBackPopFrontEmpty(t *testing.T) {
	l := New[int]()
	if n := l.PopBack(); n != nil {
		t.Fatalf("PopBack() on empty list = %v, want nil", n)
	}
	if n := l.PopFront(); n != nil {
		t.Fatalf("PopFront() on empty list = %v, want nil", n)
	}
}

func TestPopBackPopFrontOrder(t *testing.T) {
	l := New[int]()
	l.PushFront(1)
	l.PushFront(2)
	l.PushFront(3) // front: 3 2 1 :back

	if got := l.PopBack().Key; got != 1 {
		t.Fatalf("PopBack() = %d, want 1", got)
	}
	if got := l.PopFront().Key; got != 3 {
		t.Fatalf("PopFront() = %d, want 3", got)
	}
	if l.Len() != 1 || l.Front().Key != 2 {
		t.Fatalf("unexpected remaining state: len=%d front=%v", l.Len(), l.Front())
	}
}

func TestClear(t *testing.T) {
	l := New[int]()
	l.PushFront(1)
	l.PushFront(2)
	l.Clear()

	if l.Len() != 0 || l.Front() != nil || l.Back() != nil {
		t.Fatalf("Clear() left non-empty state: len=%d front=%v back=%v", l.Len(), l.Front(), l.Back())
	}
}

func TestPushFrontExpire(t *testing.T) {
	l := New[string]()
	n := l.PushFrontExpire("k", 42)
	if n.Expire != 42 {
		t.Fatalf("Expire = %d, want 42", n.Expire)
	}
}
