package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the risk
// aggregation engine.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec // labels: provider, outcome={success,error,empty}
	Substitutions    *prometheus.CounterVec // labels: domain, kind
	Computations     *prometheus.CounterVec // labels: domain, tier
	ComputeDuration  prometheus.Histogram
	AlertsGenerated  *prometheus.CounterVec // labels: domain, level
	AlertsPublished  prometheus.Counter
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss}
	PollerRunning    prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProviderRequests,
		m.Substitutions,
		m.Computations,
		m.ComputeDuration,
		m.AlertsGenerated,
		m.AlertsPublished,
		m.CacheLookups,
		m.PollerRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "provider_requests_total",
			Help:      "Upstream provider fetches by provider and outcome.",
		}, []string{"provider", "outcome"}),
		Substitutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "substitutions_total",
			Help:      "Default-value substitutions by domain and measurement kind.",
		}, []string{"domain", "kind"}),
		Computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "computations_total",
			Help:      "Composite index computations by domain and resulting tier.",
		}, []string{"domain", "tier"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "risk_engine",
			Name:      "compute_duration_seconds",
			Help:      "Duration of a complete fetch-and-compute cycle for one domain.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		AlertsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "alerts_generated_total",
			Help:      "Alerts generated by domain and level.",
		}, []string{"domain", "level"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "alerts_published_total",
			Help:      "Alerts written to the sink topic.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "risk_engine",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "risk_engine",
			Name:      "poller_running",
			Help:      "1 when the evaluation poller is active, 0 when shut down.",
		}),
	}
}
