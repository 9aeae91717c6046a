// File: core/storage/pinned_test.go
// License: Apache-2.0

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regionkit/storage/api"
	"github.com/regionkit/storage/core/storage"
)

func TestPinnedUsesSuppliedRegion(t *testing.T) {
	backing := make([]byte, 64)
	s := storage.NewPinned(backing)
	require.Equal(t, 64, s.Ceiling())

	h, err := s.Acquire(16, 1)
	require.NoError(t, err)

	b, err := s.Resolve(h)
	require.NoError(t, err)
	copy(b, "through the wrap")

	// The storage is a view over the supplier's bytes, not a copy.
	assert.Equal(t, "through the wrap", string(backing[:16]))
}

func TestPinnedCeiling(t *testing.T) {
	s := storage.NewPinned(make([]byte, 32))

	_, err := s.Acquire(33, 1)
	assert.ErrorIs(t, err, api.ErrInsufficientCapacity)

	h, err := s.Acquire(32, 1)
	require.NoError(t, err)

	b, err := s.Resolve(h)
	require.NoError(t, err)
	copy(b, "untouched")

	_, err = s.Grow(h, 33)
	require.ErrorIs(t, err, api.ErrInsufficientCapacity)

	b, err = s.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, "untouched", string(b[:9]), "failed grow must not corrupt the region")
}

func TestPinnedReleaseLeavesRegionWithSupplier(t *testing.T) {
	backing := make([]byte, 16)
	s := storage.NewPinned(backing)

	h, err := s.Acquire(16, 1)
	require.NoError(t, err)
	b, err := s.Resolve(h)
	require.NoError(t, err)
	copy(b, "still the owners")

	require.NoError(t, s.Release(h))
	_, err = s.Resolve(h)
	assert.ErrorIs(t, err, api.ErrInvalidHandle)

	// Releasing invalidated the handle, not the supplier's bytes.
	assert.Equal(t, "still the owners", string(backing))
}

func TestPinnedSlotExhaustion(t *testing.T) {
	s := storage.NewPinned(make([]byte, 1024))
	handles := make([]api.Handle, 0, 8)
	for i := 0; i < 8; i++ {
		h, err := s.Acquire(8, 1)
		require.NoError(t, err, "slot %d", i)
		handles = append(handles, h)
	}
	_, err := s.Acquire(8, 1)
	require.ErrorIs(t, err, api.ErrInsufficientCapacity)

	require.NoError(t, s.Release(handles[7]))
	_, err = s.Acquire(8, 1)
	assert.NoError(t, err, "slot freed by release")
}

func TestMapPinned(t *testing.T) {
	s, closeFn, err := storage.MapPinned(4096)
	require.NoError(t, err)
	defer func() { require.NoError(t, closeFn()) }()

	require.GreaterOrEqual(t, s.Ceiling(), 4096)

	h, err := s.Acquire(4096, 64)
	require.NoError(t, err)
	b, err := s.Resolve(h)
	require.NoError(t, err)
	b[0], b[4095] = 0xA5, 0x5A

	b, err = s.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, byte(0xA5), b[0])
	assert.Equal(t, byte(0x5A), b[4095])

	_, _, err = storage.MapPinned(0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}
