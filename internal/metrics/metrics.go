package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Metrics counts controller outcomes on its own registry. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	uploads       *prometheus.CounterVec
	queries       *prometheus.CounterVec
	queryDuration prometheus.Histogram
	documents     prometheus.Gauge
	warnings      prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docchat",
			Name:      "uploads_total",
			Help:      "Upload attempts by outcome.",
		}, []string{"outcome"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docchat",
			Name:      "queries_total",
			Help:      "Questions by outcome.",
		}, []string{"outcome"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docchat",
			Name:      "query_duration_seconds",
			Help:      "Time spent waiting on the query service.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "docchat",
			Name:      "documents",
			Help:      "Documents currently held by the session.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docchat",
			Name:      "citation_warnings_total",
			Help:      "Citations that could not be resolved to a held document.",
		}),
	}
	reg.MustRegister(m.uploads, m.queries, m.queryDuration, m.documents, m.warnings)
	return m
}

func (m *Metrics) Upload(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Query(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		m.queryDuration.Observe(took.Seconds())
	}
}

func (m *Metrics) Documents(n int) {
	if m == nil {
		return
	}
	m.documents.Set(float64(n))
}

func (m *Metrics) CitationWarnings(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.warnings.Add(float64(n))
}
