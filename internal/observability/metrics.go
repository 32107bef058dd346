package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the income map service.
type Metrics struct {
	// Source fetch metrics.
	SourceFetches       *prometheus.CounterVec   // labels: source={counties,states,abbrevs}, outcome={success,error}
	SourceFetchDuration *prometheus.HistogramVec // labels: source
	SourceBytes         *prometheus.GaugeVec     // labels: source

	// View computation metrics.
	ViewRequests        *prometheus.CounterVec // labels: result={reused,hit,miss,error}
	ViewComputeDuration prometheus.Histogram
	CountiesLoaded      prometheus.Gauge
	StatesJoined        prometheus.Gauge
	StatesWithoutData   prometheus.Gauge

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	PublishEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SourceFetches,
		m.SourceFetchDuration,
		m.SourceBytes,
		m.ViewRequests,
		m.ViewComputeDuration,
		m.CountiesLoaded,
		m.StatesJoined,
		m.StatesWithoutData,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.PublishEnabled,
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
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "income_map",
			Name:      "source_fetches_total",
			Help:      "Source document fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "income_map",
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of a source document fetch including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		SourceBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "income_map",
			Name:      "source_bytes",
			Help:      "Size of the most recently fetched source document.",
		}, []string{"source"}),
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "income_map",
			Name:      "view_requests_total",
			Help:      "View requests by cache result.",
		}, []string{"result"}),
		ViewComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "income_map",
			Name:      "view_compute_duration_seconds",
			Help:      "Duration of parse, aggregate, and join for one set of sources.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CountiesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "income_map",
			Name:      "counties_loaded",
			Help:      "County rows in the most recently computed view.",
		}),
		StatesJoined: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "income_map",
			Name:      "states_joined",
			Help:      "States on the map in the most recently computed view.",
		}),
		StatesWithoutData: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "income_map",
			Name:      "states_without_data",
			Help:      "States on the map with no 2015 median income.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "income_map",
			Name:      "snapshots_published_total",
			Help:      "State snapshot messages written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "income_map",
			Name:      "publish_errors_total",
			Help:      "Failed snapshot publish attempts.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "income_map",
			Name:      "publish_enabled",
			Help:      "1 when snapshot publishing is enabled, 0 otherwise.",
		}),
	}
}
