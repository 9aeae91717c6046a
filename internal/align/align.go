// File: internal/align/align.go
// License: Apache-2.0
//
// Alignment arithmetic shared by all storage variants.
// Every call site validates requested alignments through this package so the
// variants agree on what a malformed request is.

package align

import "unsafe"

// MaxRegionBytes caps a single region request. Anything above it cannot be
// a sane request on any supported target and is rejected before it can
// overflow downstream size arithmetic.
const MaxRegionBytes = 1 << 48

// MaxAlign caps a requested alignment. The dynamic variants over-allocate by
// align-1 bytes to place the region, so an unbounded alignment would overflow
// that arithmetic long before it served any hardware purpose.
const MaxAlign = 1 << 30

// Valid reports whether a is a usable alignment: a positive power of two no
// larger than MaxAlign.
func Valid(a int) bool {
	return a > 0 && a <= MaxAlign && a&(a-1) == 0
}

// Up rounds n up to the next multiple of a. a must satisfy Valid.
func Up(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}

// Offset returns how many bytes past p the next a-aligned address lies.
// a must satisfy Valid.
func Offset(p unsafe.Pointer, a int) int {
	return int(-uintptr(p) & uintptr(a-1))
}

// SaneCapacity reports whether c is usable as a region capacity.
func SaneCapacity(c int) bool {
	return c >= 0 && c <= MaxRegionBytes
}
