// Package fake
// License: Apache-2.0
//
// Fake storage implementation for testing collection adapters against the
// capability contract, including the paths real variants take rarely:
// forced relocation and scripted failures.

package fake

import (
	"fmt"

	"github.com/regionkit/storage/api"
)

type region struct {
	gen  uint32
	live bool
	data []byte
}

// Storage is a fake implementation of api.Storage. Regions live in plain
// slices; knobs steer Grow into whichever contract outcome a test needs.
type Storage struct {
	// ForceRelocate makes every capacity-increasing Grow relocate, even
	// though the fake could always extend in place.
	ForceRelocate bool

	// FailWith, when set, is returned by the next mutating operation and
	// then cleared.
	FailWith error

	// Ops records every call in order, for asserting adapter behavior.
	Ops []string

	owner uint64
	slots []region
}

var _ api.Storage = (*Storage)(nil)

// New creates an empty fake storage.
func New() *Storage {
	return &Storage{owner: api.NextOwnerToken()}
}

func (s *Storage) record(format string, args ...any) {
	s.Ops = append(s.Ops, fmt.Sprintf(format, args...))
}

func (s *Storage) takeFailure() error {
	err := s.FailWith
	s.FailWith = nil
	return err
}

func (s *Storage) lookup(h api.Handle) (*region, error) {
	if !h.Valid() || h.Owner() != s.owner || int(h.Slot()) >= len(s.slots) {
		return nil, api.NewError(api.ErrCodeInvalidHandle, "handle does not belong to this storage")
	}
	r := &s.slots[h.Slot()]
	if !r.live || r.gen != h.Generation() {
		return nil, api.NewError(api.ErrCodeInvalidHandle, "handle was released or superseded")
	}
	return r, nil
}

func (s *Storage) put(data []byte) api.Handle {
	for i := range s.slots {
		if !s.slots[i].live {
			s.slots[i].gen++
			s.slots[i].live = true
			s.slots[i].data = data
			return api.NewHandle(s.owner, uint32(i), s.slots[i].gen)
		}
	}
	s.slots = append(s.slots, region{gen: 1, live: true, data: data})
	return api.NewHandle(s.owner, uint32(len(s.slots)-1), 1)
}

// Acquire implements api.Storage.
func (s *Storage) Acquire(capacity, align int) (api.Handle, error) {
	s.record("acquire(%d,%d)", capacity, align)
	if err := s.takeFailure(); err != nil {
		return api.Handle{}, err
	}
	if capacity < 0 || align <= 0 || align&(align-1) != 0 {
		return api.Handle{}, api.NewError(api.ErrCodeInvalidArgument, "malformed request")
	}
	return s.put(make([]byte, capacity)), nil
}

// Resolve implements api.Storage.
func (s *Storage) Resolve(h api.Handle) ([]byte, error) {
	r, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	return r.data, nil
}

// Grow implements api.Storage.
func (s *Storage) Grow(h api.Handle, newCapacity int) (api.GrowResult, error) {
	s.record("grow(%d)", newCapacity)
	if err := s.takeFailure(); err != nil {
		return api.GrowResult{}, err
	}
	r, err := s.lookup(h)
	if err != nil {
		return api.GrowResult{}, err
	}
	if newCapacity <= len(r.data) {
		return api.GrowResult{Placement: api.GrownInPlace, Handle: h}, nil
	}
	if s.ForceRelocate {
		// No copy: the caller owns moving its live bytes.
		return api.GrowResult{Placement: api.Relocated, Handle: s.put(make([]byte, newCapacity))}, nil
	}
	grown := make([]byte, newCapacity)
	copy(grown, r.data)
	r.data = grown
	return api.GrowResult{Placement: api.GrownInPlace, Handle: h}, nil
}

// Shrink implements api.Storage.
func (s *Storage) Shrink(h api.Handle, newCapacity int) error {
	s.record("shrink(%d)", newCapacity)
	if err := s.takeFailure(); err != nil {
		return err
	}
	r, err := s.lookup(h)
	if err != nil {
		return err
	}
	if newCapacity < 0 || newCapacity > len(r.data) {
		return api.NewError(api.ErrCodeInvalidArgument, "shrink target exceeds current capacity")
	}
	if newCapacity == 0 {
		r.live = false
		r.gen++
		r.data = nil
		return nil
	}
	r.data = r.data[:newCapacity]
	return nil
}

// Release implements api.Storage.
func (s *Storage) Release(h api.Handle) error {
	s.record("release")
	if err := s.takeFailure(); err != nil {
		return err
	}
	r, err := s.lookup(h)
	if err != nil {
		return err
	}
	r.live = false
	r.gen++
	r.data = nil
	return nil
}

// Live returns how many regions are currently live.
func (s *Storage) Live() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].live {
			n++
		}
	}
	return n
}
