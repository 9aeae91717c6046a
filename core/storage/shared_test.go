// File: core/storage/shared_test.go
// License: Apache-2.0

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regionkit/storage/api"
	"github.com/regionkit/storage/core/storage"
	"github.com/regionkit/storage/pool"
)

func TestSharedTwoReferents(t *testing.T) {
	p := pool.New()
	g := storage.NewGroupWith(storage.GroupConfig{Pool: p})

	a := g.Attach()
	b := g.Attach()

	ha, err := a.Acquire(32, 8)
	require.NoError(t, err)
	hb, err := b.Acquire(32, 8)
	require.NoError(t, err)
	require.Equal(t, 2, g.Refs())

	// One region, two referents: writes alias.
	ba, err := a.Resolve(ha)
	require.NoError(t, err)
	copy(ba, "seen by everyone")
	bb, err := b.Resolve(hb)
	require.NoError(t, err)
	assert.Equal(t, "seen by everyone", string(bb[:16]))

	// Releasing A's handle leaves the region alive for B.
	require.NoError(t, a.Release(ha))
	require.Equal(t, 1, g.Refs())
	bb, err = b.Resolve(hb)
	require.NoError(t, err)
	assert.Equal(t, "seen by everyone", string(bb[:16]))

	// The last release frees the region.
	require.NoError(t, b.Release(hb))
	assert.Equal(t, 0, g.Refs())
	assert.Zero(t, g.BytesInUse())
	assert.Equal(t, int64(1), p.Stats().Retained, "region returned to the pool")
}

func TestSharedHandlesAreInstanceRelative(t *testing.T) {
	g := storage.NewGroup()
	a := g.Attach()
	b := g.Attach()

	ha, err := a.Acquire(16, 1)
	require.NoError(t, err)

	// Same region, but B never issued this handle.
	_, err = b.Resolve(ha)
	assert.ErrorIs(t, err, api.ErrInvalidHandle)
}

func TestSharedAcquireAgainstExistingRegion(t *testing.T) {
	g := storage.NewGroup()
	a := g.Attach()
	b := g.Attach()

	_, err := a.Acquire(32, 8)
	require.NoError(t, err)

	_, err = b.Acquire(64, 8)
	assert.ErrorIs(t, err, api.ErrInsufficientCapacity, "larger than the shared region")

	_, err = b.Acquire(16, 16)
	assert.ErrorIs(t, err, api.ErrInvalidArgument, "stricter than the region's alignment")

	_, err = b.Acquire(16, 8)
	assert.NoError(t, err)
}

func TestSharedInPlaceGrowVisibleToAllReferents(t *testing.T) {
	g := storage.NewGroup()
	a := g.Attach()
	b := g.Attach()

	ha, err := a.Acquire(16, 1)
	require.NoError(t, err)
	hb, err := b.Acquire(16, 1)
	require.NoError(t, err)

	// 16 sits in the 64-byte class, so this grow stays in place.
	res, err := a.Grow(ha, 48)
	require.NoError(t, err)
	require.Equal(t, api.GrownInPlace, res.Placement)

	bb, err := b.Resolve(hb)
	require.NoError(t, err)
	assert.Len(t, bb, 48, "region mutation is visible through every referent")
}

func TestSharedRelocatingGrow(t *testing.T) {
	g := storage.NewGroup()
	a := g.Attach()

	ha, err := a.Acquire(64, 1)
	require.NoError(t, err)
	before, err := a.Resolve(ha)
	require.NoError(t, err)
	copy(before, "carried across!!")

	res, err := a.Grow(ha, 65)
	require.NoError(t, err)
	require.Equal(t, api.Relocated, res.Placement)
	require.Equal(t, 2, g.Refs(), "old and new regions both referenced during the copy window")

	old, err := a.Resolve(ha)
	require.NoError(t, err)
	fresh, err := a.Resolve(res.Handle)
	require.NoError(t, err)
	copy(fresh, old)
	require.NoError(t, a.Release(ha))
	require.Equal(t, 1, g.Refs())

	got, err := a.Resolve(res.Handle)
	require.NoError(t, err)
	assert.Equal(t, "carried across!!", string(got[:16]))

	// New referents attach to the relocated region.
	b := g.Attach()
	hb, err := b.Acquire(65, 1)
	require.NoError(t, err)
	bb, err := b.Resolve(hb)
	require.NoError(t, err)
	assert.Equal(t, "carried across!!", string(bb[:16]))
}

func TestSharedShrinkToZeroReleasesOnlyCallerHandle(t *testing.T) {
	g := storage.NewGroup()
	a := g.Attach()
	b := g.Attach()

	ha, err := a.Acquire(16, 1)
	require.NoError(t, err)
	hb, err := b.Acquire(16, 1)
	require.NoError(t, err)

	require.NoError(t, a.Shrink(ha, 0))
	_, err = a.Resolve(ha)
	assert.ErrorIs(t, err, api.ErrInvalidHandle)

	bb, err := b.Resolve(hb)
	require.NoError(t, err)
	assert.Len(t, bb, 16, "the region's lifetime belongs to the remaining referents")
}
