// File: control/registry.go
// License: Apache-2.0
//
// Registry of live storage instances for inspection and leak detection.

package control

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/regionkit/storage/api"
)

// Probe reports a storage's current stats. Probes are pulled on snapshot,
// never pushed, so registering costs a storage nothing per operation.
type Probe func() api.StorageStats

type entry struct {
	name  string
	probe Probe
}

// Registry tracks live storage instances by a unique ID. Thread-safe.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uuid.UUID]entry)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a named probe and returns its ID for deregistration.
// The name is a human label and need not be unique.
func (r *Registry) Register(name string, probe Probe) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	r.entries[id] = entry{name: name, probe: probe}
	r.mu.Unlock()
	return id
}

// RegisterStorage is Register for anything exposing api.StatsProvider.
func (r *Registry) RegisterStorage(name string, s api.StatsProvider) uuid.UUID {
	return r.Register(name, s.Stats)
}

// Deregister removes a probe. Deregistering a storage that still holds live
// regions is how leaks escape the registry, so callers check Leaks first
// when that matters.
func (r *Registry) Deregister(id uuid.UUID) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

// Instance pairs a registration with its current stats.
type Instance struct {
	ID    uuid.UUID
	Name  string
	Stats api.StorageStats
}

// Snapshot polls every probe and returns the current state of all
// registered storages.
func (r *Registry) Snapshot() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Instance, 0, len(r.entries))
	for id, e := range r.entries {
		out = append(out, Instance{ID: id, Name: e.name, Stats: e.probe()})
	}
	return out
}

// Leaks returns the registered storages that still hold live regions.
// At shutdown this should be empty; anything listed points at a handle
// somebody acquired and never released.
func (r *Registry) Leaks() []Instance {
	var out []Instance
	for _, in := range r.Snapshot() {
		if in.Stats.InUse > 0 {
			out = append(out, in)
		}
	}
	return out
}

// FormatStats renders stats for humans.
func FormatStats(st api.StorageStats) string {
	ceiling := "unbounded"
	if st.BytesCeiling > 0 {
		ceiling = humanize.IBytes(uint64(st.BytesCeiling))
	}
	return fmt.Sprintf("regions in-use=%d acquired=%d released=%d bytes=%s ceiling=%s",
		st.InUse, st.Acquired, st.Released,
		humanize.IBytes(uint64(st.BytesInUse)), ceiling)
}
