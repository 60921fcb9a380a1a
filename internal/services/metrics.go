package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder receives service-level measurements.
type MetricsRecorder interface {
	RecordMutation(op, status string)
	RecordCommit(status string, duration time.Duration)
	RecordDerivation(duration time.Duration)
	RecordExport(sink, status string)
	SetEntries(n int)
}

type PrometheusMetrics struct {
	mutations      *prometheus.CounterVec
	commits        *prometheus.CounterVec
	commitDuration prometheus.Histogram
	derivation     prometheus.Histogram
	exports        *prometheus.CounterVec
	entries        prometheus.Gauge
}

// NewPrometheusMetrics registers the service collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	f := promauto.With(reg)
	return &PrometheusMetrics{
		mutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgeter_mutations_total",
				Help: "Store and filter mutations by operation and outcome",
			},
			[]string{"op", "status"},
		),
		commits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgeter_commits_total",
				Help: "Ledger commits by outcome",
			},
			[]string{"status"},
		),
		commitDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "budgeter_commit_duration_milliseconds",
				Help:    "Ledger commit duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		derivation: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "budgeter_derivation_duration_seconds",
				Help:    "Time spent deriving dashboard views",
				Buckets: prometheus.DefBuckets,
			},
		),
		exports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budgeter_exports_total",
				Help: "Exports by sink and outcome",
			},
			[]string{"sink", "status"},
		),
		entries: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "budgeter_entries",
				Help: "Entries currently held by the ledger",
			},
		),
	}
}

func (m *PrometheusMetrics) RecordMutation(op, status string) {
	m.mutations.WithLabelValues(op, status).Inc()
}

func (m *PrometheusMetrics) RecordCommit(status string, duration time.Duration) {
	m.commits.WithLabelValues(status).Inc()
	m.commitDuration.Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusMetrics) RecordDerivation(duration time.Duration) {
	m.derivation.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordExport(sink, status string) {
	m.exports.WithLabelValues(sink, status).Inc()
}

func (m *PrometheusMetrics) SetEntries(n int) {
	m.entries.Set(float64(n))
}

type noopMetrics struct{}

func (noopMetrics) RecordMutation(string, string) {}
func (noopMetrics) RecordCommit(string, time.Duration) {}
func (noopMetrics) RecordDerivation(time.Duration) {}
func (noopMetrics) RecordExport(string, string) {}
func (noopMetrics) SetEntries(int) {}
