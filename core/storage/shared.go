// File: core/storage/shared.go
// License: Apache-2.0
//
// Shared storage: one region jointly referenced by several storage
// instances. The group's reference count is atomic so the last referent
// frees the region exactly once; content mutation is not synchronized and is
// coordinated by the callers, per the contract.

package storage

import (
	"sync/atomic"
	"unsafe"

	"github.com/regionkit/storage/api"
	"github.com/regionkit/storage/internal/align"
	"github.com/regionkit/storage/pool"
)

// GroupConfig tunes a shared group.
type GroupConfig struct {
	// Pool supplies and recycles the group's backing slices.
	// Nil selects pool.Default().
	Pool *pool.RegionPool

	// Limit caps the group's live bytes, including a relocated-from region
	// that has not been released yet. Zero means unbounded.
	Limit int64
}

type sharedRegion struct {
	raw     []byte
	off     int
	capv    int
	usable  int
	algn    int
	retired bool // superseded by a relocating grow; resolvable until its refs drain
	refs    atomic.Int32
}

// Group owns the region shared by its referents. Create instances with
// Attach; the region is allocated by the first Acquire and freed when the
// last handle is released.
type Group struct {
	src   *pool.RegionPool
	limit int64
	cur   *sharedRegion
	refs  atomic.Int32 // live handles across all referents
	inUse atomic.Int64 // bytes across current and retired regions
}

// NewGroup creates a group backed by the process-wide region pool.
func NewGroup() *Group {
	return NewGroupWith(GroupConfig{})
}

// NewGroupWith creates a group with explicit configuration.
func NewGroupWith(cfg GroupConfig) *Group {
	src := cfg.Pool
	if src == nil {
		src = pool.Default()
	}
	return &Group{src: src, limit: cfg.Limit}
}

// Refs returns the number of live handles across all referents.
func (g *Group) Refs() int {
	return int(g.refs.Load())
}

// BytesInUse returns the group's live bytes.
func (g *Group) BytesInUse() int64 {
	return g.inUse.Load()
}

// Attach creates a new storage instance referencing this group. The first
// Acquire through any referent allocates the region; later Acquires hand out
// handles to the same region.
func (g *Group) Attach() *Shared {
	return &Shared{group: g, table: newTable[*sharedRegion]()}
}

func (g *Group) checkBudget(extra int64) error {
	if g.limit > 0 && g.inUse.Load()+extra > g.limit {
		return api.NewError(api.ErrCodeInsufficientCapacity, "configured byte limit exceeded").
			WithContext("limit", g.limit).
			WithContext("in_use", g.inUse.Load()).
			WithContext("requested", extra)
	}
	return nil
}

func (g *Group) allocate(capacity, alignv int) (*sharedRegion, error) {
	if err := g.checkBudget(int64(capacity)); err != nil {
		return nil, err
	}
	raw := g.src.Get(capacity + alignv - 1)
	off := 0
	if len(raw) > 0 {
		off = align.Offset(unsafe.Pointer(&raw[0]), alignv)
	}
	g.inUse.Add(int64(capacity))
	return &sharedRegion{
		raw:    raw,
		off:    off,
		capv:   capacity,
		usable: len(raw) - off,
		algn:   alignv,
	}, nil
}

func (g *Group) dropRef(r *sharedRegion) {
	g.refs.Add(-1)
	if r.refs.Add(-1) == 0 {
		g.inUse.Add(-int64(r.capv))
		if r == g.cur {
			g.cur = nil
		}
		g.src.Put(r.raw)
		r.raw = nil
	}
}

// Shared is one referent of a Group. Handle bookkeeping is per instance;
// the region and its reference count live in the group.
type Shared struct {
	group    *Group
	table    slotTable[*sharedRegion]
	acquired int64
	released int64
}

var (
	_ api.ZeroingStorage = (*Shared)(nil)
	_ api.StatsProvider  = (*Shared)(nil)
)

func (s *Shared) acquire(capacity, alignv int, zeroed bool) (api.Handle, error) {
	if !align.Valid(alignv) {
		return api.Handle{}, api.Errorf(api.ErrCodeInvalidArgument, "alignment %d is not a positive power of two", alignv)
	}
	if !align.SaneCapacity(capacity) {
		return api.Handle{}, api.Errorf(api.ErrCodeInvalidArgument, "capacity %d out of range", capacity)
	}
	g := s.group
	r := g.cur
	if r == nil {
		nr, err := g.allocate(capacity, alignv)
		if err != nil {
			return api.Handle{}, err
		}
		if zeroed {
			clear(nr.raw[nr.off : nr.off+nr.capv])
		}
		g.cur = nr
		r = nr
	} else {
		if alignv > r.algn {
			return api.Handle{}, api.NewError(api.ErrCodeInvalidArgument, "alignment exceeds the shared region's alignment").
				WithContext("requested", alignv).
				WithContext("region", r.algn)
		}
		if capacity > r.capv {
			return api.Handle{}, api.NewError(api.ErrCodeInsufficientCapacity, "shared region is smaller than requested; grow it through an existing referent").
				WithContext("requested", capacity).
				WithContext("capacity", r.capv)
		}
	}
	r.refs.Add(1)
	g.refs.Add(1)
	s.acquired++
	return s.table.put(r), nil
}

// Acquire implements api.Storage. The first Acquire on the group allocates
// the shared region through the same pool path heap storage uses; subsequent
// Acquires reference the existing region, provided it is large enough.
func (s *Shared) Acquire(capacity, alignv int) (api.Handle, error) {
	return s.acquire(capacity, alignv, false)
}

// AcquireZeroed implements api.ZeroingStorage. Zeroing applies only when
// this call allocates the region; an already-shared region's contents belong
// to the other referents.
func (s *Shared) AcquireZeroed(capacity, alignv int) (api.Handle, error) {
	return s.acquire(capacity, alignv, true)
}

// Resolve implements api.Storage. After another referent grows or shrinks
// the region in place, Resolve reflects the new capacity: region state is
// shared, handles are not.
func (s *Shared) Resolve(h api.Handle) ([]byte, error) {
	sl, err := s.table.lookup(h)
	if err != nil {
		return nil, err
	}
	r := sl.val
	return r.raw[r.off : r.off+r.capv : r.off+r.capv], nil
}

// Grow implements api.Storage. In-place growth is visible to every referent.
// A relocating grow supersedes the region: the old handle (and every other
// referent's handle) keeps resolving the retired region until released, and
// only the new handle sees the new location. Referents coordinate
// re-acquisition among themselves, like all shared-content mutation.
func (s *Shared) Grow(h api.Handle, newCapacity int) (api.GrowResult, error) {
	sl, err := s.table.lookup(h)
	if err != nil {
		return api.GrowResult{}, err
	}
	if !align.SaneCapacity(newCapacity) {
		return api.GrowResult{}, api.Errorf(api.ErrCodeInvalidArgument, "capacity %d out of range", newCapacity)
	}
	r := sl.val
	if newCapacity <= r.capv {
		return api.GrowResult{Placement: api.GrownInPlace, Handle: h}, nil
	}
	if r.retired {
		return api.GrowResult{}, api.NewError(api.ErrCodeInvalidArgument, "region was superseded by a relocating grow").
			WithContext("handle", h.String())
	}
	g := s.group
	if newCapacity <= r.usable {
		if err := g.checkBudget(int64(newCapacity - r.capv)); err != nil {
			return api.GrowResult{}, err
		}
		g.inUse.Add(int64(newCapacity - r.capv))
		r.capv = newCapacity
		return api.GrowResult{Placement: api.GrownInPlace, Handle: h}, nil
	}
	nr, err := g.allocate(newCapacity, r.algn)
	if err != nil {
		return api.GrowResult{}, err
	}
	r.retired = true
	g.cur = nr
	nr.refs.Add(1)
	g.refs.Add(1)
	s.acquired++
	return api.GrowResult{Placement: api.Relocated, Handle: s.table.put(nr)}, nil
}

// Shrink implements api.Storage. A nonzero shrink reduces the shared
// region's capacity for every referent; shrinking to zero only releases the
// caller's handle, since the region's lifetime belongs to the remaining
// referents.
func (s *Shared) Shrink(h api.Handle, newCapacity int) error {
	sl, err := s.table.lookup(h)
	if err != nil {
		return err
	}
	r := sl.val
	if newCapacity < 0 || newCapacity > r.capv {
		return api.NewError(api.ErrCodeInvalidArgument, "shrink target exceeds current capacity").
			WithContext("requested", newCapacity).
			WithContext("capacity", r.capv)
	}
	if newCapacity == 0 {
		return s.Release(h)
	}
	s.group.inUse.Add(-int64(r.capv - newCapacity))
	r.capv = newCapacity
	return nil
}

// Release implements api.Storage. Decrements the group's reference count;
// the region is freed when the count reaches zero.
func (s *Shared) Release(h api.Handle) error {
	r, err := s.table.drop(h)
	if err != nil {
		return err
	}
	s.released++
	s.group.dropRef(r)
	return nil
}

// Stats implements api.StatsProvider. Byte figures are group-wide, since the
// region is jointly owned.
func (s *Shared) Stats() api.StorageStats {
	return api.StorageStats{
		Acquired:     s.acquired,
		Released:     s.released,
		InUse:        int64(s.table.live),
		BytesInUse:   s.group.inUse.Load(),
		BytesCeiling: s.group.limit,
	}
}
