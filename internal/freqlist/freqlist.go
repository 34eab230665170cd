// Package freqlist implements the frequency-bucket list primitive used by
// LFU and MFU: a doubly-linked list of buckets, each holding every key that
// currently shares a given access count, ordered by strictly increasing
// count from front to back (adjacent counts may differ by more than one).
// Promotion, admission and eviction from either end are all O(1).
package freqlist

// Bucket holds every key sharing Count accesses. A bucket is unlinked and
// discarded the moment its key set becomes empty.
type Bucket[K comparable] struct {
	Count int

	keys       map[K]struct{}
	prev, next *Bucket[K]
}

// Len reports how many keys currently share this bucket's count.
func (b *Bucket[K]) Len() int { return len(b.keys) }

// Any returns an arbitrary member key. Iteration order over a Go map is
// randomized, which is the right behavior when ties among equally-ranked
// victims are left unspecified.
func (b *Bucket[K]) Any() (K, bool) {
	for k := range b.keys {
		return k, true
	}
	var zero K
	return zero, false
}

// List is the frequency-ordered chain of Buckets; Front is the
// lowest-count bucket, Back is the highest-count bucket.
type List[K comparable] struct {
	head, tail *Bucket[K]
}

// New returns an empty frequency list.
func New[K comparable]() *List[K] { return &List[K]{} }

// Front returns the lowest-count bucket, or nil if the list is empty.
func (l *List[K]) Front() *Bucket[K] { return l.head }

// Back returns the highest-count bucket, or nil if the list is empty.
func (l *List[K]) Back() *Bucket[K] { return l.tail }

// Admit places a brand-new key into the count=1 bucket at the head,
// creating it if one doesn't already exist there.
func (l *List[K]) Admit(key K) *Bucket[K] {
	if l.head != nil && l.head.Count == 1 {
		l.head.keys[key] = struct{}{}
		return l.head
	}
	b := &Bucket[K]{Count: 1, keys: map[K]struct{}{key: {}}}
	l.linkFront(b)
	return b
}

// Promote increments key's access count by one: key moves into the
// adjacent bucket for Count+1 when one exists; otherwise, if key is b's
// sole member, b's Count is incremented in place, and if not, a new
// Count+1 bucket is created after b. Returns the bucket that now holds key.
func (l *List[K]) Promote(key K, b *Bucket[K]) *Bucket[K] {
	next := b.next
	if len(b.keys) == 1 {
		if next != nil && next.Count == b.Count+1 {
			delete(b.keys, key)
			next.keys[key] = struct{}{}
			l.unlink(b)
			return next
		}
		b.Count++
		return b
	}

	delete(b.keys, key)
	if next != nil && next.Count == b.Count+1 {
		next.keys[key] = struct{}{}
		return next
	}
	nb := &Bucket[K]{Count: b.Count + 1, keys: map[K]struct{}{key: {}}}
	l.linkAfter(nb, b)
	return nb
}

// Remove deletes key from bucket b (EvictFront and EvictBack use it). b is
// unlinked if it becomes empty.
func (l *List[K]) Remove(key K, b *Bucket[K]) {
	delete(b.keys, key)
	if len(b.keys) == 0 {
		l.unlink(b)
	}
}

// EvictFront removes and returns an arbitrary key from the lowest-count
// bucket (used by LFU).
func (l *List[K]) EvictFront() (K, bool) { return l.evictFrom(l.head) }

// EvictBack removes and returns an arbitrary key from the highest-count
// bucket (used by MFU).
func (l *List[K]) EvictBack() (K, bool) { return l.evictFrom(l.tail) }

// Clear detaches every bucket and resets the list to empty.
func (l *List[K]) Clear() { l.head, l.tail = nil, nil }

func (l *List[K]) evictFrom(b *Bucket[K]) (K, bool) {
	if b == nil {
		var zero K
		return zero, false
	}
	k, ok := b.Any()
	if !ok {
		var zero K
		return zero, false
	}
	l.Remove(k, b)
	return k, true
}

func (l *List[K]) linkFront(b *Bucket[K]) {
	b.prev = nil
	b.next = l.head
	if l.head != nil {
		l.head.prev = b
	}
	l.head = b
	if l.tail == nil {
		l.tail = b
	}
}

func (l *List[K]) linkAfter(b, after *Bucket[K]) {
	b.prev = after
	b.next = after.next
	if after.next != nil {
		after.next.prev = b
	} else {
		l.tail = b
	}
	after.next = b
}

func (l *List[K]) unlink(b *Bucket[K]) {
	if b.prev != nil {
		b.prev.next = b.next
	} else {
		l.head = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	} else {
		l.tail = b.prev
	}
	b.prev, b.next = nil, nil
}
