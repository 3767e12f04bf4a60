package store

import (
	"sync"

	"logscope/internal/app/entry"
	"logscope/internal/config"
)

// Order selects the scan direction over the stored history
type Order int

const (
	OldestFirst Order = iota
	NewestFirst
)

// Store is a capped in-memory history of parsed entries, oldest evicted first
type Store interface {
	Append(e entry.Entry) entry.Entry
	Snapshot() []entry.Entry
	Recent(n int) []entry.Entry
	Scan(order Order, fn func(e entry.Entry) bool)
	Len() int
	Cap() int
	Evicted() uint64
	Clear()
}

// ring implements Store with a fixed array ring guarded by a reader-writer lock
type ring struct {
	mu      sync.RWMutex
	entries []entry.Entry
	head    int
	count   int
	nextID  uint64
	evicted uint64
}

// NewStore creates a store sized from configuration
func NewStore(cfg *config.Config) Store {
	return New(cfg.Buffer.Capacity)
}

// New creates a store holding at most capacity entries
func New(capacity int) Store {
	if capacity <= 0 {
		capacity = config.DefaultBufferCapacity
	}

	return &ring{
		entries: make([]entry.Entry, capacity),
	}
}

// Append stores a copy of the entry, assigns its sequence ID and evicts the oldest entry when full
func (r *ring) Append(e entry.Entry) entry.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID

	capacity := len(r.entries)

	if r.count == capacity {
		r.entries[r.head] = e
		r.head = (r.head + 1) % capacity
		r.evicted++

		return e
	}

	r.entries[(r.head+r.count)%capacity] = e
	r.count++

	return e
}

// Snapshot returns a copy of all entries, oldest first
func (r *ring) Snapshot() []entry.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry.Entry, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.at(i)
	}

	return out
}

// Recent returns a copy of the last n entries, oldest first
func (r *ring) Recent(n int) []entry.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 || n > r.count {
		n = r.count
	}

	out := make([]entry.Entry, n)
	start := r.count - n

	for i := 0; i < n; i++ {
		out[i] = r.at(start + i)
	}

	return out
}

// Scan visits entries in the given order until fn returns false. The read lock is held
// for the whole scan, so fn must not call back into the store
func (r *ring) Scan(order Order, fn func(e entry.Entry) bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if order == NewestFirst {
		for i := r.count - 1; i >= 0; i-- {
			if !fn(r.at(i)) {
				return
			}
		}

		return
	}

	for i := 0; i < r.count; i++ {
		if !fn(r.at(i)) {
			return
		}
	}
}

// Len returns the number of stored entries
func (r *ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.count
}

// Cap returns the store capacity
func (r *ring) Cap() int {
	return len(r.entries)
}

// Evicted returns how many entries were overwritten by newer ones
func (r *ring) Evicted() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.evicted
}

// Clear removes all entries. Sequence IDs keep increasing across clears
func (r *ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		r.entries[i] = entry.Entry{}
	}

	r.head = 0
	r.count = 0
}

// at returns the entry at logical index i (0 is the oldest); callers hold the lock
func (r *ring) at(i int) entry.Entry {
	return r.entries[(r.head+i)%len(r.entries)]
}
