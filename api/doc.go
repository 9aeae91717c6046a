// File: api/doc.go
// License: Apache-2.0

// Package api defines the capability contract between collections and the
// storage variants that back them.
//
// A Storage grants contiguous byte regions, identified by opaque Handles
// rather than raw addresses. Unlike an allocator, a Storage makes no promise
// that a region's address is stable: an inline storage keeps its buffer
// embedded by value, so the buffer moves whenever the owning value moves.
// Collections therefore re-resolve every handle through the issuing storage
// instance on every access and never cache the returned slice across an
// operation that may relocate the region.
package api
