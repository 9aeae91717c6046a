// File: control/tuning.go
// License: Apache-2.0
//
// Dynamic key/value tuning with change propagation, for the knobs worth
// turning at runtime (pool retention, growth factors) without restarting.

package control

import "sync"

// Well-known tuning keys.
const (
	// TuningPoolRetention (int): idle slices each pool class retains.
	TuningPoolRetention = "pool.retention"
)

// TuningStore is a dynamic key/value map with snapshot and listener support.
// Listeners run synchronously on the mutating goroutine, so a caller knows
// the new values are applied when Set returns.
type TuningStore struct {
	mu        sync.RWMutex
	values    map[string]any
	listeners []func(map[string]any)
}

// NewTuningStore initializes an empty store.
func NewTuningStore() *TuningStore {
	return &TuningStore{values: make(map[string]any)}
}

// Set stores one value and notifies listeners.
func (ts *TuningStore) Set(key string, value any) {
	ts.SetAll(map[string]any{key: value})
}

// SetAll merges new values and notifies listeners once.
func (ts *TuningStore) SetAll(values map[string]any) {
	ts.mu.Lock()
	for k, v := range values {
		ts.values[k] = v
	}
	snap := ts.snapshotLocked()
	listeners := append([]func(map[string]any){}, ts.listeners...)
	ts.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// Get returns one value.
func (ts *TuningStore) Get(key string) (any, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	v, ok := ts.values[key]
	return v, ok
}

// Snapshot returns a copy of all values.
func (ts *TuningStore) Snapshot() map[string]any {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.snapshotLocked()
}

func (ts *TuningStore) snapshotLocked() map[string]any {
	out := make(map[string]any, len(ts.values))
	for k, v := range ts.values {
		out[k] = v
	}
	return out
}

// OnChange registers a listener called after every Set/SetAll with a
// snapshot of the current values.
func (ts *TuningStore) OnChange(fn func(map[string]any)) {
	ts.mu.Lock()
	ts.listeners = append(ts.listeners, fn)
	ts.mu.Unlock()
}

// IntSetting reads key as an int, tolerating the types a config source may
// deliver it as.
func IntSetting(values map[string]any, key string) (int, bool) {
	switch v := values[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
