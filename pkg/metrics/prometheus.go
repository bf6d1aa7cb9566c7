// Package metrics provides Prometheus metrics for the scoring pipeline and
// its HTTP wrapper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "f1score"

// Manager holds all Prometheus collectors for the service.
type Manager struct {
	registry prometheus.Registerer

	runsTotal       prometheus.Counter
	runErrors       prometheus.Counter
	rowsScored      prometheus.Counter
	rowsExcluded    prometheus.Counter
	scoringDuration prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(customRegistry)
}

// NewManager creates the collectors on the given registry.
func NewManager(reg prometheus.Registerer) *Manager {
	m := &Manager{registry: reg}
	auto := promauto.With(reg)

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total number of scoring runs started",
	})

	m.runErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "run_errors_total",
		Help:      "Total number of scoring runs that failed",
	})

	m.rowsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_scored_total",
		Help:      "Total number of rows that received a prediction",
	})

	m.rowsExcluded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_excluded_total",
		Help:      "Total number of rows excluded before scoring",
	})

	m.scoringDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Histogram of end to end scoring run duration",
		Buckets:   prometheus.DefBuckets,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by endpoint and method",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	return m
}

// RecordRun increments the started runs counter.
func RecordRun() {
	globalManager.runsTotal.Inc()
}

// RecordRunError increments the failed runs counter.
func RecordRunError() {
	globalManager.runErrors.Inc()
}

// RecordRows adds the scored and excluded row counts of one run.
func RecordRows(scored, excluded int) {
	globalManager.rowsScored.Add(float64(scored))
	globalManager.rowsExcluded.Add(float64(excluded))
}

// RecordScoringDuration records one run's duration in seconds.
func RecordScoringDuration(seconds float64) {
	globalManager.scoringDuration.Observe(seconds)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in seconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
