package queue

import (
	"context"
	"sync"
	"sync/atomic"
)

// Queue is a bounded multi-producer single-consumer queue. Push never blocks:
// when the queue is full the oldest item is discarded and counted as dropped
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	head    int
	count   int
	closed  bool
	notify  chan struct{}
	dropped atomic.Uint64
	pushed  atomic.Uint64
}

// New creates a queue holding at most capacity items
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = 1
	}

	return &Queue[T]{
		items:  make([]T, capacity),
		notify: make(chan struct{}, 1),
	}
}

// Push appends an item, evicting the oldest queued item when full.
// It reports false when the queue is closed and the item was not accepted
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()
		return false
	}

	capacity := len(q.items)

	if q.count == capacity {
		var zero T

		q.items[q.head] = zero
		q.head = (q.head + 1) % capacity
		q.count--
		q.dropped.Add(1)
	}

	q.items[(q.head+q.count)%capacity] = item
	q.count++
	q.mu.Unlock()

	q.pushed.Add(1)
	q.signal()

	return true
}

// Pop removes the oldest item, blocking until one is available, the queue is closed
// and empty, or ctx is done. ok is false when no item was returned
func (q *Queue[T]) Pop(ctx context.Context) (T, bool) {
	for {
		if item, ok, closed := q.tryPop(); ok || closed {
			return item, ok
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// TryPop removes the oldest item without blocking
func (q *Queue[T]) TryPop() (T, bool) {
	item, ok, _ := q.tryPop()
	return item, ok
}

// Drain removes and returns every queued item without blocking
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	capacity := len(q.items)
	out := make([]T, q.count)

	var zero T

	for i := 0; i < q.count; i++ {
		idx := (q.head + i) % capacity
		out[i] = q.items[idx]
		q.items[idx] = zero
	}

	q.head = 0
	q.count = 0

	return out
}

// Close stops accepting items and wakes a blocked consumer. Queued items remain poppable
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.count
}

// Cap returns the queue capacity
func (q *Queue[T]) Cap() int {
	return len(q.items)
}

// Dropped returns how many items were evicted because the queue was full
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}

// Pushed returns how many items were accepted
func (q *Queue[T]) Pushed() uint64 {
	return q.pushed.Load()
}

// Closed reports whether Close was called
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

func (q *Queue[T]) tryPop() (item T, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return item, false, q.closed
	}

	item = q.items[q.head]

	var zero T

	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--

	if q.count > 0 {
		q.signal()
	}

	return item, true, q.closed
}

// signal wakes the consumer without blocking the caller
func (q *Queue[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
