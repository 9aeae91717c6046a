// File: core/storage/doc.go
// License: Apache-2.0

// Package storage provides the built-in storage variants behind the
// api.Storage contract.
//
// Four variants cover the useful backing strategies:
//
//   - Heap: regions from the Go heap through a size-classed RegionPool;
//     grows in place while the pooled class has room, relocates otherwise.
//   - Inline: a fixed-capacity buffer embedded by value in the storage
//     instance itself. The buffer moves whenever the instance moves, so
//     handles are buffer-relative offsets and Resolve recomputes the
//     absolute range from the instance's current address on every call.
//   - Pinned: one externally supplied, address-stable region the storage
//     neither owns nor resizes.
//   - Shared: a reference-counted group whose single region is jointly
//     referenced by several storage instances and freed with the last one.
//
// All variants reject foreign, released and stale handles via per-slot
// generation tags; none performs internal locking beyond the shared group's
// atomic reference count.
package storage
