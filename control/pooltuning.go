// File: control/pooltuning.go
// License: Apache-2.0

package control

import "github.com/regionkit/storage/pool"

// BindPool applies current tuning to p and keeps applying it on every
// change. Unknown or absent keys leave the pool untouched.
func BindPool(ts *TuningStore, p *pool.RegionPool) {
	apply := func(values map[string]any) {
		if n, ok := IntSetting(values, TuningPoolRetention); ok {
			p.SetRetention(n)
		}
	}
	apply(ts.Snapshot())
	ts.OnChange(apply)
}
