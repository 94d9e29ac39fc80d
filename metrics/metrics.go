// Package metrics provides Prometheus metrics collection for the service.
// It exports HTTP request metrics and counters for the inventory pipeline:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - inventory_ingestions_total: Counter with format and result labels
//   - inventory_rows_ingested: Histogram of rows per successful upload
//   - inventory_searches_total: Counter with kind label (preview or query)
//   - catalog_entries: Gauge with the number of catalog codes
//   - sessions_active: Gauge with live sessions
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	IngestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_ingestions_total",
			Help: "Inventory uploads processed",
		},
		[]string{"format", "result"},
	)

	RowsIngested = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_rows_ingested",
			Help:    "Rows per successfully ingested inventory file",
			Buckets: prometheus.ExponentialBuckets(10, 4, 7),
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_searches_total",
			Help: "Searches run against ingested tables",
		},
		[]string{"kind"},
	)

	CatalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Distinct codes in the substance catalog",
		},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Sessions currently held in memory",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(IngestionsTotal)
	prometheus.MustRegister(RowsIngested)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(CatalogEntries)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
