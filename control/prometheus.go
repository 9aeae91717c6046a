// File: control/prometheus.go
// License: Apache-2.0
//
// Prometheus bridge over the storage registry. Metrics are pulled from the
// registry's probes at scrape time; nothing is recorded on storage paths.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a Registry's storages as Prometheus metrics, labeled by
// the registered name and ID.
type Collector struct {
	registry *Registry

	regionsInUse *prometheus.Desc
	bytesInUse   *prometheus.Desc
	acquired     *prometheus.Desc
	released     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over r, typically for registration with
// a prometheus.Registerer.
func NewCollector(r *Registry) *Collector {
	labels := []string{"storage", "id"}
	return &Collector{
		registry: r,
		regionsInUse: prometheus.NewDesc(
			"regionstorage_regions_in_use",
			"Live regions currently granted by the storage.",
			labels, nil),
		bytesInUse: prometheus.NewDesc(
			"regionstorage_in_use_bytes",
			"Summed capacity in bytes of live regions.",
			labels, nil),
		acquired: prometheus.NewDesc(
			"regionstorage_regions_acquired_total",
			"Regions granted over the storage's lifetime.",
			labels, nil),
		released: prometheus.NewDesc(
			"regionstorage_regions_released_total",
			"Regions returned over the storage's lifetime.",
			labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.regionsInUse
	ch <- c.bytesInUse
	ch <- c.acquired
	ch <- c.released
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, in := range c.registry.Snapshot() {
		labels := []string{in.Name, in.ID.String()}
		ch <- prometheus.MustNewConstMetric(c.regionsInUse, prometheus.GaugeValue,
			float64(in.Stats.InUse), labels...)
		ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue,
			float64(in.Stats.BytesInUse), labels...)
		ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.CounterValue,
			float64(in.Stats.Acquired), labels...)
		ch <- prometheus.MustNewConstMetric(c.released, prometheus.CounterValue,
			float64(in.Stats.Released), labels...)
	}
}
