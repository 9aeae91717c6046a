//go:build !linux

// File: core/storage/mmap_stub.go
// License: Apache-2.0

package storage

import "github.com/regionkit/storage/api"

// MapPinned falls back to a Go-heap slice on platforms without the mmap
// path. The current Go runtime does not move heap objects, so the address
// stability Pinned requires still holds; the close function only drops the
// reference.
func MapPinned(length int) (*Pinned, func() error, error) {
	if length <= 0 {
		return nil, nil, api.Errorf(api.ErrCodeInvalidArgument, "mapping length %d must be positive", length)
	}
	p := NewPinned(make([]byte, length))
	return p, func() error { return nil }, nil
}
