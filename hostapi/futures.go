package hostapi

import (
	"sync"

	"github.com/hiveml/hivehost/domain/entities"
)

// Futures tracks outstanding asynchronous operations by handle. Handles are
// allocated from a monotonic counter, so a handle is unique among live
// operations and is never reused before its operation is retired. The zero
// handle is never allocated.
type Futures[T any] struct {
	mu   sync.Mutex
	next uint64
	live map[entities.FutureHandle]T
}

// NewFutures returns an empty futures table.
func NewFutures[T any]() *Futures[T] {
	return &Futures[T]{live: make(map[entities.FutureHandle]T)}
}

// Register stores v under a fresh nonzero handle and returns the handle.
func (f *Futures[T]) Register(v T) entities.FutureHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	h := entities.FutureHandle(f.next)
	f.live[h] = v
	return h
}

// Get returns the value for an outstanding handle.
func (f *Futures[T]) Get(h entities.FutureHandle) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.live[h]
	return v, ok
}

// Retire removes and returns the value for a handle. After retirement the
// handle is invalid; the allocator never hands it out again.
func (f *Futures[T]) Retire(h entities.FutureHandle) (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.live[h]
	if ok {
		delete(f.live, h)
	}
	return v, ok
}

// Len returns the number of outstanding handles.
func (f *Futures[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// Handles returns a snapshot of all outstanding handles.
func (f *Futures[T]) Handles() []entities.FutureHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.FutureHandle, 0, len(f.live))
	for h := range f.live {
		out = append(out, h)
	}
	return out
}
