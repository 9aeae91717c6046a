// File: core/seq/doc.go
// License: Apache-2.0

// Package seq provides a growable byte sequence built purely against the
// api.Storage contract.
//
// Vec is the template for how collections consume a storage: it keeps one
// storage instance and at most one handle, re-resolves the handle on every
// access, and treats every Grow as potentially relocating. Because the
// storage is embedded by value, a Vec over inline storage moves as one
// self-contained value.
package seq
