// Package list implements an intrusive, doubly-linked ordered list of keys.
//
// It is the ordered-structure primitive shared by most eviction policies
// (FIFO, LRU, MRU, SLRU, 2Q-simple, 2Q-full, MQ's per-level queues and
// history buffer, TLRU's size and expiry lists). Unlike container/list it
// stores no interface{} payload: the policy's own index map owns the value,
// the list owns only key + (optional) expiry ordering. All operations below
// are O(1).
package list

// Node is a single element of a List. The zero value is not useful; Nodes
// are only created by a List's Push* methods, which also link them in.
type Node[K comparable] struct {
	Key K

	// Expire is an absolute deadline (UnixNano, or a logical clock tick for
	// access-based policies). Zero means "unused" for lists that don't
	// track expiry (FIFO, LRU, MRU, SLRU, 2Q).
	Expire int64

	prev, next *Node[K]
}

// List is a doubly-linked list of Nodes. Front() is the head, Back() is the
// tail; which end represents "most/least recently used" is a convention
// each policy package chooses for itself.
type List[K comparable] struct {
	head, tail *Node[K]
	len        int
}

// New returns an empty list.
func New[K comparable]() *List[K] { return &List[K]{} }

// Len reports the number of linked nodes.
func (l *List[K]) Len() int { return l.len }

// Front returns the head node, or nil if the list is empty.
func (l *List[K]) Front() *Node[K] { return l.head }

// Back returns the tail node, or nil if the list is empty.
func (l *List[K]) Back() *Node[K] { return l.tail }

// PushFront inserts a new node for key at the head in O(1).
func (l *List[K]) PushFront(key K) *Node[K] {
	n := &Node[K]{Key: key}
	l.attachFront(n)
	l.len++
	return n
}

// PushFrontExpire is PushFront plus an initial expiry deadline.
func (l *List[K]) PushFrontExpire(key K, expire int64) *Node[K] {
	n := &Node[K]{Key: key, Expire: expire}
	l.attachFront(n)
	l.len++
	return n
}

// MoveToFront relinks an already-linked node to the head in O(1). A no-op
// if n is already at the head.
func (l *List[K]) MoveToFront(n *Node[K]) {
	if n == l.head {
		return
	}
	l.detach(n)
	l.attachFront(n)
}

// Remove detaches n from the list in O(1). n must belong to l.
func (l *List[K]) Remove(n *Node[K]) {
	l.detach(n)
	l.len--
}

// PopBack removes and returns the tail node, or nil if the list is empty.
func (l *List[K]) PopBack() *Node[K] {
	n := l.tail
	if n == nil {
		return nil
	}
	l.Remove(n)
	return n
}

// PopFront removes and returns the head node, or nil if the list is empty.
func (l *List[K]) PopFront() *Node[K] {
	n := l.head
	if n == nil {
		return nil
	}
	l.Remove(n)
	return n
}

// Clear detaches every node and resets the list to empty.
func (l *List[K]) Clear() {
	l.head, l.tail = nil, nil
	l.len = 0
}

func (l *List[K]) attachFront(n *Node[K]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *List[K]) detach(n *Node[K]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
