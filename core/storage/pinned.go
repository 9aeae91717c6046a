// File: core/storage/pinned.go
// License: Apache-2.0
//
// Pinned storage: one externally supplied region whose address the supplier
// guarantees stable for the storage's lifetime. The storage never allocates,
// never frees and never relocates; ownership of the bytes stays with the
// supplier.

package storage

import "github.com/regionkit/storage/api"

// Pinned wraps an external, address-stable byte region. Suitable backing
// includes mmap'd memory (see MapPinned), device or shared memory, or any
// long-lived slice the supplier keeps alive.
type Pinned struct {
	arena fixedArena
	buf   []byte
}

var (
	_ api.ZeroingStorage = (*Pinned)(nil)
	_ api.StatsProvider  = (*Pinned)(nil)
)

// NewPinned wraps region. The supplier keeps ownership: releasing handles
// never frees the region, and the region must outlive the storage.
func NewPinned(region []byte) *Pinned {
	return &Pinned{arena: newArena(), buf: region}
}

// Ceiling is the fixed length of the supplied region.
func (s *Pinned) Ceiling() int {
	return len(s.buf)
}

// Acquire implements api.Storage. Alignment is relative to the region's
// start; suppliers that need absolute alignment hand in an aligned region,
// which mmap-backed ones are by construction.
func (s *Pinned) Acquire(capacity, alignv int) (api.Handle, error) {
	return s.arena.acquire(capacity, alignv, s.Ceiling())
}

// AcquireZeroed implements api.ZeroingStorage.
func (s *Pinned) AcquireZeroed(capacity, alignv int) (api.Handle, error) {
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
func (s *Pinned) Resolve(h api.Handle) ([]byte, error) {
	sl, err := s.arena.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.buf[sl.off : sl.off+sl.cap : sl.off+sl.cap], nil
}

// Grow implements api.Storage. Growth past the supplied region's length
// fails with ErrInsufficientCapacity.
func (s *Pinned) Grow(h api.Handle, newCapacity int) (api.GrowResult, error) {
	return s.arena.grow(h, newCapacity, s.Ceiling())
}

// Shrink implements api.Storage.
func (s *Pinned) Shrink(h api.Handle, newCapacity int) error {
	return s.arena.shrink(h, newCapacity)
}

// Release implements api.Storage. Marks the handle invalid; the external
// region itself stays with its supplier.
func (s *Pinned) Release(h api.Handle) error {
	return s.arena.release(h)
}

// Stats implements api.StatsProvider.
func (s *Pinned) Stats() api.StorageStats {
	return s.arena.stats(s.Ceiling())
}
