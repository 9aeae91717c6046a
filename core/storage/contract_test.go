// File: core/storage/contract_test.go
// License: Apache-2.0
//
// Properties every storage variant must satisfy, run against all four.

package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regionkit/storage/api"
	"github.com/regionkit/storage/core/storage"
)

type variant struct {
	name string
	make func() api.Storage
}

func variants() []variant {
	return []variant{
		{"heap", func() api.Storage { return storage.NewHeap() }},
		{"inline", func() api.Storage {
			s := storage.NewInline[[256]byte]()
			return &s
		}},
		{"pinned", func() api.Storage { return storage.NewPinned(make([]byte, 256)) }},
		{"shared", func() api.Storage { return storage.NewGroup().Attach() }},
	}
}

func TestAcquireGrantsRequestedCapacity(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()
			h, err := s.Acquire(32, 8)
			require.NoError(t, err)
			require.True(t, h.Valid())

			b, err := s.Resolve(h)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(b), 32)
		})
	}
}

func TestBytesSurviveResolve(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()
			h, err := s.Acquire(16, 1)
			require.NoError(t, err)

			b, err := s.Resolve(h)
			require.NoError(t, err)
			copy(b, "movable regions!")

			again, err := s.Resolve(h)
			require.NoError(t, err)
			assert.Equal(t, "movable regions!", string(again[:16]))
		})
	}
}

func TestInvalidHandleRejected(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()

			_, err := s.Resolve(api.Handle{})
			assert.ErrorIs(t, err, api.ErrInvalidHandle)

			foreign := storage.NewHeap()
			fh, err := foreign.Acquire(8, 1)
			require.NoError(t, err)
			_, err = s.Resolve(fh)
			assert.ErrorIs(t, err, api.ErrInvalidHandle)

			h, err := s.Acquire(8, 1)
			require.NoError(t, err)
			require.NoError(t, s.Release(h))

			_, err = s.Resolve(h)
			assert.ErrorIs(t, err, api.ErrInvalidHandle)
			err = s.Release(h)
			assert.ErrorIs(t, err, api.ErrInvalidHandle, "double release is caller error")
		})
	}
}

func TestMalformedRequestsRejected(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()

			_, err := s.Acquire(8, 0)
			assert.ErrorIs(t, err, api.ErrInvalidArgument)
			_, err = s.Acquire(8, 3)
			assert.ErrorIs(t, err, api.ErrInvalidArgument)
			_, err = s.Acquire(-1, 1)
			assert.ErrorIs(t, err, api.ErrInvalidArgument)

			// An alignment large enough to overflow the over-allocation
			// arithmetic is a malformed request, not a crash.
			_, err = s.Acquire(16, 1<<62)
			assert.ErrorIs(t, err, api.ErrInvalidArgument)
		})
	}
}

func TestShrinkPreservesPrefixAndNeverRelocates(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()
			h, err := s.Acquire(16, 1)
			require.NoError(t, err)

			b, err := s.Resolve(h)
			require.NoError(t, err)
			copy(b, "0123456789abcdef")

			require.NoError(t, s.Shrink(h, 10))
			b, err = s.Resolve(h)
			require.NoError(t, err)
			require.Len(t, b, 10)
			assert.Equal(t, "0123456789", string(b))

			err = s.Shrink(h, 11)
			assert.ErrorIs(t, err, api.ErrInvalidArgument, "shrink target above current capacity")
			err = s.Shrink(h, -1)
			assert.ErrorIs(t, err, api.ErrInvalidArgument)
		})
	}
}

func TestShrinkToZeroInvalidatesHandle(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()
			h, err := s.Acquire(16, 1)
			require.NoError(t, err)

			require.NoError(t, s.Shrink(h, 0))
			_, err = s.Resolve(h)
			assert.ErrorIs(t, err, api.ErrInvalidHandle)
		})
	}
}

func TestGrowToSmallerIsInPlaceNoop(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()
			h, err := s.Acquire(16, 1)
			require.NoError(t, err)

			res, err := s.Grow(h, 8)
			require.NoError(t, err)
			assert.Equal(t, api.GrownInPlace, res.Placement)
			assert.Equal(t, h, res.Handle)

			b, err := s.Resolve(h)
			require.NoError(t, err)
			assert.Len(t, b, 16, "a no-op grow must not shrink")
		})
	}
}

func TestAcquireZeroed(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			z, ok := v.make().(api.ZeroingStorage)
			require.True(t, ok, "all built-in variants zero on request")

			h, err := z.AcquireZeroed(32, 1)
			require.NoError(t, err)
			b, err := z.Resolve(h)
			require.NoError(t, err)
			for i, c := range b {
				require.Zero(t, c, "byte %d", i)
			}
		})
	}
}

func TestStatsAccounting(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			s := v.make()
			sp, ok := s.(api.StatsProvider)
			require.True(t, ok)

			h, err := s.Acquire(16, 1)
			require.NoError(t, err)
			st := sp.Stats()
			assert.Equal(t, int64(1), st.Acquired)
			assert.Equal(t, int64(1), st.InUse)
			assert.GreaterOrEqual(t, st.BytesInUse, int64(16))

			require.NoError(t, s.Release(h))
			st = sp.Stats()
			assert.Equal(t, int64(1), st.Released)
			assert.Zero(t, st.InUse)
			assert.Zero(t, st.BytesInUse)
		})
	}
}
