// File: api/storage.go
// License: Apache-2.0
//
// The storage capability contract: acquire, resolve, grow, shrink, release.

package api

// Placement reports where a region ended up after a Grow call.
type Placement int

const (
	// GrownInPlace means the region was extended without moving; the handle
	// passed to Grow remains the region's handle.
	GrownInPlace Placement = iota

	// Relocated means the region's bytes now live elsewhere. Grow issued a
	// fresh handle for the new location and the caller must copy its live
	// bytes out of the old handle's range before releasing it.
	Relocated
)

func (p Placement) String() string {
	switch p {
	case GrownInPlace:
		return "in-place"
	case Relocated:
		return "relocated"
	default:
		return "unknown"
	}
}

// GrowResult is the outcome of a successful Grow.
type GrowResult struct {
	Placement Placement

	// Handle is the region's handle after the grow: identical to the input
	// handle for GrownInPlace, freshly issued for Relocated. On relocation
	// the old handle stays resolvable (read-only by convention) until the
	// caller releases it, giving the caller a window to copy live bytes.
	Handle Handle
}

// Storage grants, resizes and releases contiguous byte regions.
//
// Storages are not safe for concurrent use; the collection built on top owns
// the synchronization discipline. Within one instance operations observe
// strict program order.
//
// Every caller must treat Grow as potentially relocating, even against
// variants that never relocate today. The contract, not the variant, defines
// the worst case a collection has to handle; that uniformity is what lets one
// collection implementation run unmodified over heap, inline, pinned and
// shared storage.
type Storage interface {
	// Acquire requests a region of at least capacity bytes whose start is
	// aligned to align (a power of two) relative to the storage's base.
	// Fails with ErrInsufficientCapacity when the variant has a fixed ceiling
	// it cannot meet, ErrOutOfMemory when the underlying source is exhausted,
	// or ErrInvalidArgument for a negative capacity or invalid alignment.
	Acquire(capacity, align int) (Handle, error)

	// Resolve returns the currently valid byte range for h. The result is
	// only good until the next Grow, Shrink, Release or move of the storage
	// instance; callers re-resolve instead of caching. Fails with
	// ErrInvalidHandle if h is foreign to this instance or no longer live.
	Resolve(h Handle) ([]byte, error)

	// Grow extends h's region to at least newCapacity bytes. See GrowResult
	// for the in-place/relocated protocol. Growing to a capacity not above
	// the current one is a no-op reported as GrownInPlace.
	Grow(h Handle, newCapacity int) (GrowResult, error)

	// Shrink reduces h's region to newCapacity bytes. Shrinking never
	// relocates and preserves the first newCapacity bytes. Shrinking to zero
	// releases the region and permanently invalidates h. Fails with
	// ErrInvalidArgument if newCapacity is negative or exceeds the current
	// capacity.
	Shrink(h Handle, newCapacity int) error

	// Release returns h's region to the storage. h becomes permanently
	// invalid; releasing it again fails with ErrInvalidHandle.
	Release(h Handle) error
}

// ZeroingStorage is implemented by storages that can hand out pre-zeroed
// regions, sparing the caller an explicit clear.
type ZeroingStorage interface {
	Storage

	// AcquireZeroed is Acquire with the granted range cleared to zero bytes.
	AcquireZeroed(capacity, align int) (Handle, error)
}

// StatsProvider is implemented by storages that account their region traffic.
type StatsProvider interface {
	Stats() StorageStats
}
