// File: core/storage/table.go
// License: Apache-2.0
//
// Generation-tagged slot table for the dynamically backed variants (heap,
// shared). Slots are recycled through a free list; the generation tag makes
// stale handles fail lookup instead of aliasing a recycled slot.

package storage

import "github.com/regionkit/storage/api"

type tableSlot[T any] struct {
	gen  uint32
	live bool
	val  T
}

type slotTable[T any] struct {
	owner uint64
	slots []tableSlot[T]
	free  []uint32
	live  int
}

func newTable[T any]() slotTable[T] {
	return slotTable[T]{owner: api.NextOwnerToken()}
}

func (t *slotTable[T]) put(v T) api.Handle {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, tableSlot[T]{})
	}
	s := &t.slots[idx]
	s.gen++
	s.live = true
	s.val = v
	t.live++
	return api.NewHandle(t.owner, idx, s.gen)
}

func (t *slotTable[T]) lookup(h api.Handle) (*tableSlot[T], error) {
	if !h.Valid() || h.Owner() != t.owner {
		return nil, api.NewError(api.ErrCodeInvalidHandle, "handle does not belong to this storage").
			WithContext("handle", h.String())
	}
	idx := int(h.Slot())
	if idx >= len(t.slots) {
		return nil, api.Errorf(api.ErrCodeInvalidHandle, "slot %d out of range", idx)
	}
	s := &t.slots[idx]
	if !s.live || s.gen != h.Generation() {
		return nil, api.NewError(api.ErrCodeInvalidHandle, "handle was released or superseded").
			WithContext("handle", h.String())
	}
	return s, nil
}

// drop invalidates h and returns the slot's payload for the caller to
// dispose of.
func (t *slotTable[T]) drop(h api.Handle) (T, error) {
	var zero T
	s, err := t.lookup(h)
	if err != nil {
		return zero, err
	}
	v := s.val
	s.val = zero
	s.live = false
	s.gen++
	t.live--
	t.free = append(t.free, h.Slot())
	return v, nil
}
