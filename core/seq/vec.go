// File: core/seq/vec.go
// License: Apache-2.0
//
// Vec: the minimal growable sequence driving the storage contract. The
// storage is embedded by value and every access goes through Resolve, so a
// Vec over inline storage is movable as a plain value copy.
//
// The sequence logic lives in core, which takes the storage as a parameter
// on every call instead of holding a reference. Vec supplies its embedded
// storage; RefVec supplies a runtime-chosen one.

package seq

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/regionkit/storage/api"
)

// StoragePtr constrains PS to a pointer to the embedded storage type that
// satisfies the capability contract.
type StoragePtr[S any] interface {
	*S
	api.Storage
}

// core holds the storage-independent sequence state: one handle, the logical
// length, and a mirror of the granted capacity used to decide when to grow.
type core struct {
	policy   GrowthPolicy
	handle   api.Handle
	length   int
	capacity int
}

// resolve must succeed for a handle the sequence itself holds; anything else
// is a defect in the sequence, not a user-facing condition.
func (c *core) resolve(st api.Storage, h api.Handle) []byte {
	b, err := st.Resolve(h)
	if err != nil {
		panic(fmt.Sprintf("seq: own handle failed to resolve: %v", err))
	}
	return b
}

// filterSpaceErr lets the two externally meaningful failures through and
// converts everything else into a fail-fast defect.
func filterSpaceErr(err error) error {
	switch api.CodeOf(err) {
	case api.ErrCodeOutOfMemory, api.ErrCodeInsufficientCapacity:
		return err
	default:
		panic(fmt.Sprintf("seq: storage rejected a well-formed request: %v", err))
	}
}

// ensure makes room for extra more bytes, acquiring or growing the region
// per the growth policy. Relocation is handled here: live bytes are copied
// from the old resolved range before the old handle is released.
func (c *core) ensure(st api.Storage, extra int) error {
	need := c.length + extra
	if c.handle.Valid() && need <= c.capacity {
		return nil
	}
	if !c.handle.Valid() {
		h, err := st.Acquire(c.policy.Next(0, need), 1)
		if err != nil {
			return errors.Wrap(filterSpaceErr(err), "seq: acquire")
		}
		c.handle = h
		c.capacity = len(c.resolve(st, h))
		return nil
	}
	res, err := st.Grow(c.handle, c.policy.Next(c.capacity, need))
	if err != nil {
		return errors.Wrap(filterSpaceErr(err), "seq: grow")
	}
	if res.Placement == api.Relocated {
		fresh := c.resolve(st, res.Handle)
		copy(fresh, c.resolve(st, c.handle)[:c.length])
		if err := st.Release(c.handle); err != nil {
			panic(fmt.Sprintf("seq: release of relocated-from handle failed: %v", err))
		}
		c.handle = res.Handle
	}
	c.capacity = len(c.resolve(st, res.Handle))
	return nil
}

func (c *core) append(st api.Storage, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := c.ensure(st, len(p)); err != nil {
		return err
	}
	copy(c.resolve(st, c.handle)[c.length:], p)
	c.length += len(p)
	return nil
}

func (c *core) appendByte(st api.Storage, b byte) error {
	if err := c.ensure(st, 1); err != nil {
		return err
	}
	c.resolve(st, c.handle)[c.length] = b
	c.length++
	return nil
}

func (c *core) at(st api.Storage, i int) byte {
	if i < 0 || i >= c.length {
		panic(fmt.Sprintf("seq: index %d out of range [0,%d)", i, c.length))
	}
	return c.resolve(st, c.handle)[i]
}

func (c *core) setAt(st api.Storage, i int, b byte) {
	if i < 0 || i >= c.length {
		panic(fmt.Sprintf("seq: index %d out of range [0,%d)", i, c.length))
	}
	c.resolve(st, c.handle)[i] = b
}

func (c *core) bytes(st api.Storage) []byte {
	if !c.handle.Valid() {
		return nil
	}
	return c.resolve(st, c.handle)[:c.length]
}

// truncate drops the sequence to n bytes and opportunistically shrinks the
// region once usage falls below a quarter of capacity. Shrinking is a policy
// choice here, skipped when it would thrash.
func (c *core) truncate(st api.Storage, n int) {
	if n < 0 || n > c.length {
		panic(fmt.Sprintf("seq: truncate to %d out of range [0,%d]", n, c.length))
	}
	c.length = n
	if !c.handle.Valid() || c.length*4 > c.capacity {
		return
	}
	target := c.policy.Next(0, c.length)
	if target >= c.capacity {
		return
	}
	if err := st.Shrink(c.handle, target); err != nil {
		panic(fmt.Sprintf("seq: shrink within capacity failed: %v", err))
	}
	c.capacity = len(c.resolve(st, c.handle))
}

func (c *core) reset(st api.Storage) {
	if c.handle.Valid() {
		if err := st.Release(c.handle); err != nil {
			panic(fmt.Sprintf("seq: release of own handle failed: %v", err))
		}
	}
	c.handle = api.Handle{}
	c.length = 0
	c.capacity = 0
}

// Vec is a growable byte sequence backed by a storage embedded by value and
// at most one region handle. Only out-of-space conditions surface as errors;
// contract violations by the Vec itself fail fast.
//
// A Vec value may be copied (moved); the abandoned source must not be used
// again, like the storage it embeds.
type Vec[S any, PS StoragePtr[S]] struct {
	store S
	core  core
}

// New builds a Vec over store. Both type parameters are inferred:
//
//	v := seq.New(storage.NewInline[[64]byte](), seq.DefaultPolicy)
func New[S any, PS StoragePtr[S]](store S, policy GrowthPolicy) Vec[S, PS] {
	return Vec[S, PS]{store: store, core: core{policy: policy.normalized()}}
}

func (v *Vec[S, PS]) storage() api.Storage { return PS(&v.store) }

// Len returns the logical length in bytes.
func (v *Vec[S, PS]) Len() int { return v.core.length }

// Cap returns the currently granted capacity in bytes.
func (v *Vec[S, PS]) Cap() int { return v.core.capacity }

// Append appends p to the sequence, growing the region as needed.
func (v *Vec[S, PS]) Append(p []byte) error { return v.core.append(v.storage(), p) }

// AppendByte appends a single byte.
func (v *Vec[S, PS]) AppendByte(b byte) error { return v.core.appendByte(v.storage(), b) }

// At returns the byte at index i. Panics when i is out of range, like a
// slice index.
func (v *Vec[S, PS]) At(i int) byte { return v.core.at(v.storage(), i) }

// SetAt stores b at index i. Panics when i is out of range.
func (v *Vec[S, PS]) SetAt(i int, b byte) { v.core.setAt(v.storage(), i, b) }

// Bytes returns the live content. The view is valid only until the next
// mutation or move of the Vec; callers needing longevity copy it out.
func (v *Vec[S, PS]) Bytes() []byte { return v.core.bytes(v.storage()) }

// Truncate drops the sequence to n bytes, shrinking opportunistically.
func (v *Vec[S, PS]) Truncate(n int) { v.core.truncate(v.storage(), n) }

// Reset empties the sequence and releases the region.
func (v *Vec[S, PS]) Reset() { v.core.reset(v.storage()) }
