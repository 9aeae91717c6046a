// File: core/storage/inline.go
// License: Apache-2.0
//
// Inline storage: a fixed-capacity buffer embedded by value in the storage
// instance. Copying the instance copies the buffer and all bookkeeping, so a
// moved instance keeps every outstanding handle valid. Resolve recomputes the
// absolute range from the instance's current address on every call and never
// caches it.

package storage

import (
	"unsafe"

	"github.com/regionkit/storage/api"
)

// Inline is the embedded-buffer storage variant. B is the buffer type,
// typically a byte array such as [64]byte; its size is the storage's fixed
// ceiling. The zero value is not ready for use, construct with NewInline.
//
// An Inline value is meant to be embedded directly in the owning collection.
// After the owning value is copied (moved), the copy's handles resolve into
// the copy's buffer; the abandoned source must not be used again.
type Inline[B any] struct {
	arena fixedArena
	buf   B
}

var (
	_ api.ZeroingStorage = (*Inline[[8]byte])(nil)
	_ api.StatsProvider  = (*Inline[[8]byte])(nil)
)

// NewInline returns an Inline storage by value, ready for embedding.
func NewInline[B any]() Inline[B] {
	return Inline[B]{arena: newArena()}
}

// Ceiling is the fixed capacity of the embedded buffer in bytes.
func (s *Inline[B]) Ceiling() int {
	return int(unsafe.Sizeof(s.buf))
}

// bytes views the embedded buffer at its current address. The view is stale
// the moment the instance moves, which is why no caller stores it.
func (s *Inline[B]) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&s.buf)), s.Ceiling())
}

// Acquire implements api.Storage. Alignment is relative to the buffer's
// start; the buffer's absolute address changes with every move, so absolute
// alignment cannot be promised by this variant.
func (s *Inline[B]) Acquire(capacity, alignv int) (api.Handle, error) {
	return s.arena.acquire(capacity, alignv, s.Ceiling())
}

// AcquireZeroed implements api.ZeroingStorage.
func (s *Inline[B]) AcquireZeroed(capacity, alignv int) (api.Handle, error) {
	h, err := s.arena.acquire(capacity, alignv, s.Ceiling())
	if err != nil {
		return api.Handle{}, err
	}
	b, err := s.Resolve(h)
	if err != nil {
		return api.Handle{}, err
	}
	clear(b)
	return h, nil
}

// Resolve implements api.Storage.
func (s *Inline[B]) Resolve(h api.Handle) ([]byte, error) {
	sl, err := s.arena.lookup(h)
	if err != nil {
		return nil, err
	}
	base := s.bytes()
	return base[sl.off : sl.off+sl.cap : sl.off+sl.cap], nil
}

// Grow implements api.Storage. Inline storage never relocates: growth past
// the ceiling fails with ErrInsufficientCapacity and the caller migrates to
// another variant if it needs more.
func (s *Inline[B]) Grow(h api.Handle, newCapacity int) (api.GrowResult, error) {
	return s.arena.grow(h, newCapacity, s.Ceiling())
}

// Shrink implements api.Storage.
func (s *Inline[B]) Shrink(h api.Handle, newCapacity int) error {
	return s.arena.shrink(h, newCapacity)
}

// Release implements api.Storage. The buffer is part of the instance, so
// releasing only recycles the offset range.
func (s *Inline[B]) Release(h api.Handle) error {
	return s.arena.release(h)
}

// Stats implements api.StatsProvider.
func (s *Inline[B]) Stats() api.StorageStats {
	return s.arena.stats(s.Ceiling())
}
