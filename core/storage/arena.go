// File: core/storage/arena.go
// License: Apache-2.0
//
// Fixed-ceiling bump bookkeeping shared by the inline and pinned variants.
// The arena tracks offsets and generations only; it never touches the bytes,
// so it can sit embedded by value inside an inline storage and move with it.

package storage

import (
	"github.com/regionkit/storage/api"
	"github.com/regionkit/storage/internal/align"
)

// maxLiveRegions bounds how many regions a fixed-ceiling storage tracks at
// once. The slot array must stay a value (no slice header) so a moved inline
// instance carries complete bookkeeping with it.
const maxLiveRegions = 8

type fixedSlot struct {
	gen  uint32
	live bool
	off  int
	cap  int
}

// fixedArena allocates offsets within [0, ceiling) by bumping, reclaiming
// space when the topmost region shrinks or dies and resetting entirely once
// no region is live. Handles are offset-based and survive moves of the
// embedding value.
type fixedArena struct {
	owner    uint64
	next     int // bump offset
	live     int
	acquired int64
	released int64
	slots    [maxLiveRegions]fixedSlot
}

func newArena() fixedArena {
	return fixedArena{owner: api.NextOwnerToken()}
}

func (a *fixedArena) acquire(capacity, alignv, ceiling int) (api.Handle, error) {
	if !align.Valid(alignv) {
		return api.Handle{}, api.Errorf(api.ErrCodeInvalidArgument, "alignment %d is not a positive power of two", alignv)
	}
	if !align.SaneCapacity(capacity) {
		return api.Handle{}, api.Errorf(api.ErrCodeInvalidArgument, "capacity %d out of range", capacity)
	}
	off := align.Up(a.next, alignv)
	if off+capacity > ceiling {
		return api.Handle{}, api.NewError(api.ErrCodeInsufficientCapacity, "request exceeds fixed ceiling").
			WithContext("requested", capacity).
			WithContext("ceiling", ceiling).
			WithContext("in_use", a.next)
	}
	idx := -1
	for i := range a.slots {
		if !a.slots[i].live {
			idx = i
			break
		}
	}
	if idx < 0 {
		return api.Handle{}, api.Errorf(api.ErrCodeInsufficientCapacity, "all %d region slots are live", maxLiveRegions)
	}
	s := &a.slots[idx]
	s.gen++
	s.live = true
	s.off = off
	s.cap = capacity
	a.next = off + capacity
	a.live++
	a.acquired++
	return api.NewHandle(a.owner, uint32(idx), s.gen), nil
}

func (a *fixedArena) lookup(h api.Handle) (*fixedSlot, error) {
	if !h.Valid() || h.Owner() != a.owner {
		return nil, api.NewError(api.ErrCodeInvalidHandle, "handle does not belong to this storage").
			WithContext("handle", h.String())
	}
	idx := int(h.Slot())
	if idx >= maxLiveRegions {
		return nil, api.Errorf(api.ErrCodeInvalidHandle, "slot %d out of range", idx)
	}
	s := &a.slots[idx]
	if !s.live || s.gen != h.Generation() {
		return nil, api.NewError(api.ErrCodeInvalidHandle, "handle was released or superseded").
			WithContext("handle", h.String())
	}
	return s, nil
}

// grow extends in place or fails; a fixed-ceiling arena never relocates.
// Only the topmost region has room to extend, everything below is fenced in
// by its neighbor.
func (a *fixedArena) grow(h api.Handle, newCap, ceiling int) (api.GrowResult, error) {
	s, err := a.lookup(h)
	if err != nil {
		return api.GrowResult{}, err
	}
	if !align.SaneCapacity(newCap) {
		return api.GrowResult{}, api.Errorf(api.ErrCodeInvalidArgument, "capacity %d out of range", newCap)
	}
	if newCap <= s.cap {
		return api.GrowResult{Placement: api.GrownInPlace, Handle: h}, nil
	}
	top := s.off+s.cap == a.next
	if !top || s.off+newCap > ceiling {
		return api.GrowResult{}, api.NewError(api.ErrCodeInsufficientCapacity, "cannot extend region in place").
			WithContext("requested", newCap).
			WithContext("ceiling", ceiling).
			WithContext("offset", s.off)
	}
	s.cap = newCap
	a.next = s.off + newCap
	return api.GrowResult{Placement: api.GrownInPlace, Handle: h}, nil
}

func (a *fixedArena) shrink(h api.Handle, newCap int) error {
	s, err := a.lookup(h)
	if err != nil {
		return err
	}
	if newCap < 0 || newCap > s.cap {
		return api.NewError(api.ErrCodeInvalidArgument, "shrink target exceeds current capacity").
			WithContext("requested", newCap).
			WithContext("capacity", s.cap)
	}
	if newCap == 0 {
		a.drop(s)
		return nil
	}
	if s.off+s.cap == a.next {
		a.next = s.off + newCap
	}
	s.cap = newCap
	return nil
}

func (a *fixedArena) release(h api.Handle) error {
	s, err := a.lookup(h)
	if err != nil {
		return err
	}
	a.drop(s)
	return nil
}

func (a *fixedArena) drop(s *fixedSlot) {
	if s.off+s.cap == a.next {
		a.next = s.off
	}
	s.live = false
	s.gen++
	a.live--
	a.released++
	if a.live == 0 {
		a.next = 0
	}
}

func (a *fixedArena) stats(ceiling int) api.StorageStats {
	bytes := int64(0)
	for i := range a.slots {
		if a.slots[i].live {
			bytes += int64(a.slots[i].cap)
		}
	}
	return api.StorageStats{
		Acquired:     a.acquired,
		Released:     a.released,
		InUse:        int64(a.live),
		BytesInUse:   bytes,
		BytesCeiling: int64(ceiling),
	}
}
