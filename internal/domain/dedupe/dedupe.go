// Package dedupe remembers client request ids so that a repeated submission
// (a double tap on the goal button, a retried POST) is acknowledged with the
// original result instead of being recorded twice.
package dedupe

import (
	"sync"
)

// DefaultMaxSize bounds the number of remembered ids.
const DefaultMaxSize = 1024

// Deduper maps request ids to the acknowledgement first returned for them.
type Deduper[V any] interface {
	// Lookup returns the acknowledgement recorded for id.
	Lookup(id string) (V, bool)

	// Record stores ack for id. The oldest id is evicted once the deduper
	// is full. Empty ids are ignored.
	Record(id string, ack V)

	// Forget removes id so it can be submitted again.
	Forget(id string)

	Size() int
}

// node is one entry of the insertion-ordered list.
type node[V any] struct {
	id   string
	ack  V
	next *node[V]
}

// inMemoryDeduper keeps entries in a map plus a singly linked list in
// insertion order; head is the oldest entry and is evicted first.
type inMemoryDeduper[V any] struct {
	mu      sync.Mutex
	seen    map[string]*node[V]
	head    *node[V]
	tail    *node[V]
	maxSize int
}

// NewInMemoryDeduper creates a bounded deduper.
func NewInMemoryDeduper[V any](opts ...Option) Deduper[V] {
	cfg := config{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &inMemoryDeduper[V]{
		seen:    make(map[string]*node[V]),
		maxSize: cfg.maxSize,
	}
}

func (d *inMemoryDeduper[V]) Lookup(id string) (V, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, ok := d.seen[id]; ok {
		return n.ack, true
	}
	var zero V
	return zero, false
}

func (d *inMemoryDeduper[V]) Record(id string, ack V) {
	if id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, ok := d.seen[id]; ok {
		n.ack = ack
		return
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}

	n := &node[V]{id: id, ack: ack}
	if d.tail == nil {
		d.head = n
	} else {
		d.tail.next = n
	}
	d.tail = n
	d.seen[id] = n
}

func (d *inMemoryDeduper[V]) Forget(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)

	var prev *node[V]
	for cur := d.head; cur != nil && cur != n; cur = cur.next {
		prev = cur
	}
	if prev == nil {
		d.head = n.next
	} else {
		prev.next = n.next
	}
	if d.tail == n {
		d.tail = prev
	}
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper[V]) evictOldest() {
	if d.head == nil {
		return
	}
	delete(d.seen, d.head.id)
	d.head = d.head.next
	if d.head == nil {
		d.tail = nil
	}
}

func (d *inMemoryDeduper[V]) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
