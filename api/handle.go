// File: api/handle.go
// License: Apache-2.0
//
// Opaque region handles. A handle is meaningful only relative to the storage
// instance that issued it and must be re-resolved on every access.

package api

import (
	"fmt"
	"sync/atomic"
)

// Handle identifies a region granted by a Storage. The zero value is
// "no handle" and is rejected by every storage operation.
//
// A handle never encodes an absolute address. It carries a slot index into
// the issuing storage's bookkeeping, a generation tag that detects
// use-after-release, and the owner token of the issuing instance so that
// handles passed to a foreign storage are rejected instead of aliasing an
// unrelated region.
type Handle struct {
	slot  uint32
	gen   uint32
	owner uint64
}

// NewHandle assembles a handle. Intended for Storage implementations only;
// collections treat handles as opaque.
func NewHandle(owner uint64, slot, gen uint32) Handle {
	return Handle{slot: slot, gen: gen, owner: owner}
}

// Valid reports whether h could have been issued by some storage.
// A valid handle may still be stale; only Resolve decides.
func (h Handle) Valid() bool { return h.gen != 0 }

// Slot returns the bookkeeping index encoded in h.
func (h Handle) Slot() uint32 { return h.slot }

// Generation returns the generation tag encoded in h.
func (h Handle) Generation() uint32 { return h.gen }

// Owner returns the owner token of the issuing storage instance.
func (h Handle) Owner() uint64 { return h.owner }

func (h Handle) String() string {
	if !h.Valid() {
		return "handle(none)"
	}
	return fmt.Sprintf("handle(owner=%d slot=%d gen=%d)", h.owner, h.slot, h.gen)
}

var ownerTokens atomic.Uint64

// NextOwnerToken returns a process-unique token for a new storage instance.
// Tokens start at 1 so that a zero owner never matches a live instance.
func NextOwnerToken() uint64 {
	return ownerTokens.Add(1)
}
