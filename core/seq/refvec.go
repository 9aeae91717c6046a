// File: core/seq/refvec.go
// License: Apache-2.0

package seq

import "github.com/regionkit/storage/api"

// RefVec is Vec over a runtime-chosen storage held by reference. Use it when
// the variant is not known at compile time or the storage outlives the
// sequence; it trades away Vec's move-by-value property, so inline storage
// behind a RefVec stays wherever the caller keeps it.
type RefVec struct {
	store api.Storage
	core  core
}

// NewRef builds a RefVec over store.
func NewRef(store api.Storage, policy GrowthPolicy) *RefVec {
	return &RefVec{store: store, core: core{policy: policy.normalized()}}
}

// Len returns the logical length in bytes.
func (v *RefVec) Len() int { return v.core.length }

// Cap returns the currently granted capacity in bytes.
func (v *RefVec) Cap() int { return v.core.capacity }

// Append appends p to the sequence, growing the region as needed.
func (v *RefVec) Append(p []byte) error { return v.core.append(v.store, p) }

// AppendByte appends a single byte.
func (v *RefVec) AppendByte(b byte) error { return v.core.appendByte(v.store, b) }

// At returns the byte at index i. Panics when i is out of range.
func (v *RefVec) At(i int) byte { return v.core.at(v.store, i) }

// SetAt stores b at index i. Panics when i is out of range.
func (v *RefVec) SetAt(i int, b byte) { v.core.setAt(v.store, i, b) }

// Bytes returns the live content, valid until the next mutation.
func (v *RefVec) Bytes() []byte { return v.core.bytes(v.store) }

// Truncate drops the sequence to n bytes, shrinking opportunistically.
func (v *RefVec) Truncate(n int) { v.core.truncate(v.store, n) }

// Reset empties the sequence and releases the region.
func (v *RefVec) Reset() { v.core.reset(v.store) }
