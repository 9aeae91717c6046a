// Package pool
// License: Apache-2.0
//
// Size-classed reuse of released heap regions.
// Heap and shared storage draw their backing slices from a RegionPool so a
// release/acquire cycle recycles memory instead of round-tripping through the
// garbage collector. Pooling is an implementation detail of those variants;
// collections only ever see the api.Storage contract.
package pool
