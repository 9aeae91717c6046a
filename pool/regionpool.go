// File: pool/regionpool.go
// License: Apache-2.0
//
// Size-classed recycling of region backing slices.

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
)

// Predefined (power-of-two) region size classes, in bytes.
// Requests above the largest class are allocated exactly and never retained.
var sizeClasses = [...]int{
	64,
	128,
	256,
	512,
	1024,
	2 * 1024,
	4 * 1024,
	8 * 1024,
	16 * 1024,
	32 * 1024,
	64 * 1024,
	128 * 1024,
	256 * 1024,
	512 * 1024,
	1024 * 1024,
}

// classFor returns the smallest class >= size, or -1 for oversized requests.
func classFor(size int) int {
	for _, c := range sizeClasses {
		if size <= c {
			return c
		}
	}
	return -1
}

// DefaultRetention is how many idle slices each class keeps before further
// releases are dropped to the garbage collector.
const DefaultRetention = 64

// Stats aggregates allocation and reuse counters for a RegionPool.
type Stats struct {
	Allocated int64 // slices newly allocated from the Go heap
	Reused    int64 // Get calls satisfied from an idle slice
	Retained  int64 // Put calls that parked the slice for reuse
	Dropped   int64 // Put calls that fell through to the garbage collector
	Idle      int   // slices currently parked across all classes
}

// RegionPool recycles backing slices by size class. Safe for concurrent use;
// the storages built on top are not, but independent storages may share one
// pool from different goroutines.
type RegionPool struct {
	mu        sync.Mutex
	classes   map[int]*queue.Queue
	retention int

	allocated atomic.Int64
	reused    atomic.Int64
	retained  atomic.Int64
	dropped   atomic.Int64
}

// New creates an empty pool with DefaultRetention per class.
func New() *RegionPool {
	return &RegionPool{
		classes:   make(map[int]*queue.Queue),
		retention: DefaultRetention,
	}
}

var (
	defaultOnce sync.Once
	defaultPool *RegionPool
)

// Default returns a process-wide pool so independent storages reuse the same
// idle slices instead of fragmenting allocations.
func Default() *RegionPool {
	defaultOnce.Do(func() {
		defaultPool = New()
	})
	return defaultPool
}

// SetRetention caps how many idle slices each class keeps. Lowering the cap
// does not evict already-parked slices; they drain through subsequent Gets.
func (p *RegionPool) SetRetention(n int) {
	if n < 0 {
		n = 0
	}
	p.mu.Lock()
	p.retention = n
	p.mu.Unlock()
}

// Get returns a slice of at least size bytes, rounded up to the size class.
// Contents are unspecified: a reused slice still carries its previous bytes,
// mirroring uninitialized allocator memory. len(result) is the granted
// capacity.
func (p *RegionPool) Get(size int) []byte {
	clz := classFor(size)
	if clz < 0 {
		p.allocated.Add(1)
		return make([]byte, size)
	}
	p.mu.Lock()
	q := p.classes[clz]
	if q != nil && q.Length() > 0 {
		buf := q.Remove().([]byte)
		p.mu.Unlock()
		p.reused.Add(1)
		return buf
	}
	p.mu.Unlock()
	p.allocated.Add(1)
	return make([]byte, clz)
}

// GetZeroed is Get with the returned bytes cleared.
func (p *RegionPool) GetZeroed(size int) []byte {
	buf := p.Get(size)
	clear(buf)
	return buf
}

// Put parks buf for reuse. buf must be a slice previously returned by Get;
// oversized slices and overflow beyond the retention cap go to the garbage
// collector.
func (p *RegionPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	clz := classFor(cap(buf))
	if clz != cap(buf) {
		// Exact class sizes only: anything else came from the oversized
		// path or was resliced by the caller.
		p.dropped.Add(1)
		return
	}
	buf = buf[:cap(buf)]
	p.mu.Lock()
	q := p.classes[clz]
	if q == nil {
		q = queue.New()
		p.classes[clz] = q
	}
	if q.Length() >= p.retention {
		p.mu.Unlock()
		p.dropped.Add(1)
		return
	}
	q.Add(buf)
	p.mu.Unlock()
	p.retained.Add(1)
}

// Stats returns a snapshot of the pool's counters.
func (p *RegionPool) Stats() Stats {
	p.mu.Lock()
	idle := 0
	for _, q := range p.classes {
		idle += q.Length()
	}
	p.mu.Unlock()
	return Stats{
		Allocated: p.allocated.Load(),
		Reused:    p.reused.Load(),
		Retained:  p.retained.Load(),
		Dropped:   p.dropped.Load(),
		Idle:      idle,
	}
}
