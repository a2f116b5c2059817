package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for coursehub
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Tenant routing Metrics
	TenantResolveTotal     *prometheus.CounterVec
	TenantConnectDuration  prometheus.Histogram
	TenantOpenConnections  prometheus.Gauge
	TenantQueryErrorsTotal *prometheus.CounterVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Aggregation Metrics
	AggregationDuration     *prometheus.HistogramVec
	AggregationSkippedTotal *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric with reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coursehub_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coursehub_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Tenant routing Metrics
		TenantResolveTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_tenant_resolve_total",
				Help: "Course database resolutions by outcome (hit, miss, stale, not_configured, unreachable, store_error)",
			},
			[]string{"outcome"},
		),
		TenantConnectDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coursehub_tenant_connect_duration_seconds",
				Help:    "Time spent establishing a course database connection",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		TenantOpenConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "coursehub_tenant_open_handles",
				Help: "Course database handles currently held in the connection cache",
			},
		),
		TenantQueryErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_tenant_query_errors_total",
				Help: "Failed queries against course databases by operation",
			},
			[]string{"operation"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Aggregation Metrics
		AggregationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coursehub_aggregation_duration_seconds",
				Help:    "Cross-course aggregation time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"view"},
		),
		AggregationSkippedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coursehub_aggregation_skipped_courses_total",
				Help: "Courses skipped during aggregation because their database was unavailable",
			},
			[]string{"view"},
		),
	}
}
