// File: internal/align/align_test.go
// License: Apache-2.0

package align_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/regionkit/storage/internal/align"
)

func TestValid(t *testing.T) {
	for _, a := range []int{1, 2, 4, 8, 64, 4096} {
		assert.True(t, align.Valid(a), "align %d", a)
	}
	for _, a := range []int{0, -1, 3, 6, 12, 100} {
		assert.False(t, align.Valid(a), "align %d", a)
	}

	assert.True(t, align.Valid(align.MaxAlign))
	for _, a := range []int{align.MaxAlign * 2, 1 << 62} {
		assert.False(t, align.Valid(a), "align %d exceeds the cap", a)
	}
}

func TestUp(t *testing.T) {
	assert.Equal(t, 0, align.Up(0, 8))
	assert.Equal(t, 8, align.Up(1, 8))
	assert.Equal(t, 8, align.Up(8, 8))
	assert.Equal(t, 16, align.Up(9, 8))
	assert.Equal(t, 7, align.Up(7, 1))
}

func TestOffset(t *testing.T) {
	var buf [64]byte
	for _, a := range []int{1, 2, 4, 8, 16} {
		off := align.Offset(unsafe.Pointer(&buf[0]), a)
		assert.GreaterOrEqual(t, off, 0)
		assert.Less(t, off, a)
		p := uintptr(unsafe.Pointer(&buf[0])) + uintptr(off)
		assert.Zero(t, p%uintptr(a), "align %d", a)
	}
}

func TestSaneCapacity(t *testing.T) {
	assert.True(t, align.SaneCapacity(0))
	assert.True(t, align.SaneCapacity(1<<20))
	assert.False(t, align.SaneCapacity(-1))
	assert.False(t, align.SaneCapacity(align.MaxRegionBytes+1))
}
