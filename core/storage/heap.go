// File: core/storage/heap.go
// License: Apache-2.0
//
// Heap storage: regions from the Go heap through a size-classed RegionPool.
// Addresses are stable for a region's lifetime; growth is in place while the
// pooled backing slice has room and relocates otherwise.

package storage

import (
	"unsafe"

	"github.com/regionkit/storage/api"
	"github.com/regionkit/storage/internal/align"
	"github.com/regionkit/storage/pool"
)

// HeapConfig tunes a Heap storage instance.
type HeapConfig struct {
	// Pool supplies and recycles backing slices. Nil selects pool.Default().
	Pool *pool.RegionPool

	// Limit caps the summed capacity of live regions in bytes.
	// Zero means unbounded.
	Limit int64
}

type heapRegion struct {
	raw    []byte // pool-granted backing, returned on release
	off    int    // aligned start within raw
	cap    int    // current capacity
	usable int    // in-place growth ceiling: len(raw) - off
	algn   int
}

// Heap is the dynamically backed storage variant. Not safe for concurrent
// use; see the api.Storage contract.
type Heap struct {
	src      *pool.RegionPool
	limit    int64
	table    slotTable[heapRegion]
	acquired int64
	released int64
	inUse    int64 // bytes
}

var (
	_ api.ZeroingStorage = (*Heap)(nil)
	_ api.StatsProvider  = (*Heap)(nil)
)

// NewHeap creates a Heap storage backed by the process-wide region pool.
func NewHeap() *Heap {
	return NewHeapWith(HeapConfig{})
}

// NewHeapWith creates a Heap storage with explicit configuration.
func NewHeapWith(cfg HeapConfig) *Heap {
	src := cfg.Pool
	if src == nil {
		src = pool.Default()
	}
	return &Heap{src: src, limit: cfg.Limit, table: newTable[heapRegion]()}
}

func (h *Heap) acquire(capacity, alignv int, zeroed bool) (api.Handle, error) {
	if !align.Valid(alignv) {
		return api.Handle{}, api.Errorf(api.ErrCodeInvalidArgument, "alignment %d is not a positive power of two", alignv)
	}
	if !align.SaneCapacity(capacity) {
		return api.Handle{}, api.Errorf(api.ErrCodeInvalidArgument, "capacity %d out of range", capacity)
	}
	if err := h.checkBudget(int64(capacity)); err != nil {
		return api.Handle{}, err
	}
	r := h.allocate(capacity, alignv, zeroed)
	h.acquired++
	h.inUse += int64(capacity)
	return h.table.put(r), nil
}

func (h *Heap) allocate(capacity, alignv int, zeroed bool) heapRegion {
	size := capacity + alignv - 1
	var raw []byte
	if zeroed {
		raw = h.src.GetZeroed(size)
	} else {
		raw = h.src.Get(size)
	}
	off := 0
	if len(raw) > 0 {
		off = align.Offset(unsafe.Pointer(&raw[0]), alignv)
	}
	return heapRegion{
		raw:    raw,
		off:    off,
		cap:    capacity,
		usable: len(raw) - off,
		algn:   alignv,
	}
}

func (h *Heap) checkBudget(extra int64) error {
	if h.limit > 0 && h.inUse+extra > h.limit {
		return api.NewError(api.ErrCodeInsufficientCapacity, "configured byte limit exceeded").
			WithContext("limit", h.limit).
			WithContext("in_use", h.inUse).
			WithContext("requested", extra)
	}
	return nil
}

// Acquire implements api.Storage.
func (h *Heap) Acquire(capacity, alignv int) (api.Handle, error) {
	return h.acquire(capacity, alignv, false)
}

// AcquireZeroed implements api.ZeroingStorage.
func (h *Heap) AcquireZeroed(capacity, alignv int) (api.Handle, error) {
	return h.acquire(capacity, alignv, true)
}

// Resolve implements api.Storage.
func (h *Heap) Resolve(hd api.Handle) ([]byte, error) {
	s, err := h.table.lookup(hd)
	if err != nil {
		return nil, err
	}
	r := &s.val
	return r.raw[r.off : r.off+r.cap : r.off+r.cap], nil
}

// Grow implements api.Storage. Relocation never copies: the new handle's
// range is unspecified until the caller copies its live bytes from the old
// handle and releases it.
func (h *Heap) Grow(hd api.Handle, newCapacity int) (api.GrowResult, error) {
	s, err := h.table.lookup(hd)
	if err != nil {
		return api.GrowResult{}, err
	}
	if !align.SaneCapacity(newCapacity) {
		return api.GrowResult{}, api.Errorf(api.ErrCodeInvalidArgument, "capacity %d out of range", newCapacity)
	}
	r := &s.val
	if newCapacity <= r.cap {
		return api.GrowResult{Placement: api.GrownInPlace, Handle: hd}, nil
	}
	if newCapacity <= r.usable {
		if err := h.checkBudget(int64(newCapacity - r.cap)); err != nil {
			return api.GrowResult{}, err
		}
		h.inUse += int64(newCapacity - r.cap)
		r.cap = newCapacity
		return api.GrowResult{Placement: api.GrownInPlace, Handle: hd}, nil
	}
	// The old region stays live until the caller releases it, so the budget
	// briefly carries both.
	if err := h.checkBudget(int64(newCapacity)); err != nil {
		return api.GrowResult{}, err
	}
	nr := h.allocate(newCapacity, r.algn, false)
	h.acquired++
	h.inUse += int64(newCapacity)
	return api.GrowResult{Placement: api.Relocated, Handle: h.table.put(nr)}, nil
}

// Shrink implements api.Storage.
func (h *Heap) Shrink(hd api.Handle, newCapacity int) error {
	s, err := h.table.lookup(hd)
	if err != nil {
		return err
	}
	r := &s.val
	if newCapacity < 0 || newCapacity > r.cap {
		return api.NewError(api.ErrCodeInvalidArgument, "shrink target exceeds current capacity").
			WithContext("requested", newCapacity).
			WithContext("capacity", r.cap)
	}
	if newCapacity == 0 {
		return h.Release(hd)
	}
	h.inUse -= int64(r.cap - newCapacity)
	r.cap = newCapacity
	return nil
}

// Release implements api.Storage.
func (h *Heap) Release(hd api.Handle) error {
	r, err := h.table.drop(hd)
	if err != nil {
		return err
	}
	h.released++
	h.inUse -= int64(r.cap)
	h.src.Put(r.raw)
	return nil
}

// Stats implements api.StatsProvider.
func (h *Heap) Stats() api.StorageStats {
	return api.StorageStats{
		Acquired:     h.acquired,
		Released:     h.released,
		InUse:        int64(h.table.live),
		BytesInUse:   h.inUse,
		BytesCeiling: h.limit,
	}
}
