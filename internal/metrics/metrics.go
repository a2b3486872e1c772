// Package metrics defines the prometheus instrumentation for the
// ingestion pipeline, generalizing cmd/gpu-cluster-executor's
// ClusterMetrics struct-of-vectors pattern onto the
// court_ingest_* namespace spec §6 calls for.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every counter/gauge/histogram the Coordinator and
// its stages touch.
type Metrics struct {
	DocumentsDiscovered *prometheus.CounterVec
	DocumentsFetched    *prometheus.CounterVec
	DocumentsParsed     *prometheus.CounterVec
	DocumentsFailed     *prometheus.CounterVec

	StageDuration *prometheus.HistogramVec
	ActiveInFlight prometheus.Gauge

	ReconciliationChanged prometheus.Counter
}

// New constructs and registers every metric against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsDiscovered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_ingest_documents_discovered_total",
				Help: "Total discovery tuples produced by the change monitor.",
			},
			[]string{"status"},
		),
		DocumentsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_ingest_documents_fetched_total",
				Help: "Total fetch attempts, by outcome.",
			},
			[]string{"status"},
		),
		DocumentsParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_ingest_documents_parsed_total",
				Help: "Total parse attempts, by outcome.",
			},
			[]string{"status"},
		),
		DocumentsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "court_ingest_documents_failed_total",
				Help: "Total failed(...) events published, by stage.",
			},
			[]string{"stage"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "court_ingest_stage_duration_seconds",
				Help:    "Wall-clock duration of one pipeline stage for one document.",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"stage"},
		),
		ActiveInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "court_ingest_active_in_flight",
				Help: "Number of documents currently in flight through the coordinator.",
			},
		),
		ReconciliationChanged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "court_ingest_reconciliation_changed_total",
				Help: "Total versions found changed by the reconciliation loop.",
			},
		),
	}

	reg.MustRegister(
		m.DocumentsDiscovered,
		m.DocumentsFetched,
		m.DocumentsParsed,
		m.DocumentsFailed,
		m.StageDuration,
		m.ActiveInFlight,
		m.ReconciliationChanged,
	)
	return m
}
