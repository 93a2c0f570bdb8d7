package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// geospatial core.
type Metrics struct {
	// Resolution metrics.
	ResolveResults     *prometheus.CounterVec // labels: source={cache,external,fallback}
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={accepted,rejected,empty,error}
	GeocodeAPIDuration prometheus.Histogram

	// Cache metrics.
	CacheLookups *prometheus.CounterVec // labels: tier={memory,persistent}, result={hit,miss}
	CacheWrites  *prometheus.CounterVec // labels: tier={memory,persistent}, result={stored,dropped,error}

	// Marker build metrics.
	BuildDuration  prometheus.Histogram
	BuildBatchSize prometheus.Histogram
	MarkersBuilt   prometheus.Counter
	RunsSuperseded prometheus.Counter

	// Selection metrics.
	SelectionsCreated  prometheus.Counter
	SelectionsRejected prometheus.Counter
}

// NewMetrics creates and registers all core metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ResolveResults,
		m.GeocodeRequests,
		m.GeocodeAPIDuration,
		m.CacheLookups,
		m.CacheWrites,
		m.BuildDuration,
		m.BuildBatchSize,
		m.MarkersBuilt,
		m.RunsSuperseded,
		m.SelectionsCreated,
		m.SelectionsRejected,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ResolveResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "resolve_results_total",
			Help:      "Coordinate resolutions by source.",
		}, []string{"source"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API candidate queries by outcome.",
		}, []string{"outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "watermap",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "coord_cache_lookups_total",
			Help:      "Coordinate cache lookups by tier and result.",
		}, []string{"tier", "result"}),
		CacheWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "coord_cache_writes_total",
			Help:      "Coordinate cache writes by tier and result.",
		}, []string{"tier", "result"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "watermap",
			Name:      "marker_build_duration_seconds",
			Help:      "Duration of a complete marker build run.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BuildBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "watermap",
			Name:      "marker_build_batch_size",
			Help:      "Number of systems resolved per batch.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		MarkersBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "markers_built_total",
			Help:      "Total markers produced across build runs.",
		}),
		RunsSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "marker_runs_superseded_total",
			Help:      "Build runs cancelled because a newer run started.",
		}),
		SelectionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "polygon_selections_created_total",
			Help:      "Polygon selections committed by users.",
		}),
		SelectionsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "watermap",
			Name:      "polygon_selections_rejected_total",
			Help:      "Polygon commits rejected for invalid geometry.",
		}),
	}
}
