//go:build linux

// File: core/storage/mmap_linux.go
// License: Apache-2.0
//
// On Linux, pinned regions come from anonymous mmap: page-aligned, outside
// the Go heap, address-stable until unmapped.

package storage

import (
	"golang.org/x/sys/unix"

	"github.com/regionkit/storage/api"
)

// MapPinned allocates an address-stable anonymous mapping of at least length
// bytes and wraps it in a Pinned storage. The returned close function unmaps
// the region; all handles must be released before calling it.
func MapPinned(length int) (*Pinned, func() error, error) {
	if length <= 0 {
		return nil, nil, api.Errorf(api.ErrCodeInvalidArgument, "mapping length %d must be positive", length)
	}
	data, err := unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, api.NewError(api.ErrCodeOutOfMemory, "mmap failed").
			WithContext("length", length).
			WithContext("errno", err.Error())
	}
	p := NewPinned(data)
	closer := func() error {
		return unix.Munmap(data)
	}
	return p, closer, nil
}
