// Package metrics counts what a conversion or crawl run did, using a Prometheus
// registry. Counts are written out with WriteTextfile for a node-exporter textfile
// collector; there is no HTTP endpoint since the tool runs as a batch job.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "keiba"

// Metrics holds the run counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	racesTotal      prometheus.Counter
	racesSkipped    prometheus.Counter
	horsesTotal     prometheus.Counter
	rowsWritten     prometheus.Counter
	malformedValues *prometheus.CounterVec
	pagesFetched    *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		racesTotal: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_total",
			Help:      "Races converted into table rows.",
		}),
		racesSkipped: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_skipped_total",
			Help:      "Races skipped because their record had the wrong shape.",
		}),
		horsesTotal: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "horses_total",
			Help:      "Horse rows parsed.",
		}),
		rowsWritten: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written to the output table.",
		}),
		malformedValues: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_values_total",
			Help:      "Cells whose text was not a valid number, by column.",
		}, []string{"column"}),
		pagesFetched: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Pages fetched by the crawler, by page kind.",
		}, []string{"kind"}),
		fetchDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching one page.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RaceConverted counts one converted race and its horses.
func (m *Metrics) RaceConverted(horses int) {
	if m == nil {
		return
	}
	m.racesTotal.Inc()
	m.horsesTotal.Add(float64(horses))
}

// RaceSkipped counts one skipped race.
func (m *Metrics) RaceSkipped() {
	if m == nil {
		return
	}
	m.racesSkipped.Inc()
}

// RowsWritten counts rows handed to the output writer.
func (m *Metrics) RowsWritten(n int) {
	if m == nil {
		return
	}
	m.rowsWritten.Add(float64(n))
}

// MalformedValue counts one degraded cell in column.
func (m *Metrics) MalformedValue(column string) {
	if m == nil {
		return
	}
	m.malformedValues.WithLabelValues(column).Inc()
}

// PageFetched counts one fetched page of the given kind and its duration.
func (m *Metrics) PageFetched(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.pagesFetched.WithLabelValues(kind).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
