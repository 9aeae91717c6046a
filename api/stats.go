// File: api/stats.go
// License: Apache-2.0
//
// Region accounting shared by storage variants and the region pool.

package api

// StorageStats aggregates region traffic for one storage instance.
type StorageStats struct {
	// Acquired counts regions granted over the instance's lifetime,
	// including handles issued by relocating grows.
	Acquired int64

	// Released counts regions returned, by Release or shrink-to-zero.
	Released int64

	// InUse is the number of currently live regions.
	InUse int64

	// BytesInUse is the summed capacity of live regions.
	BytesInUse int64

	// BytesCeiling is the fixed byte ceiling for inline/pinned storage and
	// for budgeted heap/shared storage; zero when unbounded.
	BytesCeiling int64
}
