// Package control
// License: Apache-2.0
//
// Runtime introspection and tuning for storage deployments: a registry of
// live storage instances with leak probes, a dynamic tuning store with change
// propagation, and a Prometheus bridge over the registry. Nothing in this
// package sits on a storage hot path; storages stay silent and control pulls
// snapshots on demand.
package control
