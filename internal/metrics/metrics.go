// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Directory store metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "directory_store_operation_duration_seconds",
			Help:    "Duration of directory store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation", "collection"},
	)

	DBOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_store_operation_errors_total",
			Help: "Total number of failed directory store operations",
		},
		[]string{"operation", "collection", "error_type"},
	)

	DBRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "directory_records",
			Help: "Number of records in the directory by collection (refreshed on write)",
		},
		[]string{"collection"}, // users, devices, alerts, images
	)

	DBValueLogGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_store_value_log_gc_runs_total",
			Help: "Total number of Badger value log GC passes",
		},
		[]string{"result"}, // "rewritten", "noop", "error"
	)

	// Spatial index metrics
	SpatialIndexEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spatial_index_entries",
			Help: "Current number of device positions in the spatial index",
		},
	)

	SpatialQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spatial_query_duration_seconds",
			Help:    "Duration of nearest-device queries in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	SpatialQueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spatial_query_results",
			Help:    "Number of devices returned by nearest-device queries",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Seeding
	SeedRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_seed_runs_total",
			Help: "Total number of mock data seeding requests",
		},
		[]string{"result"}, // "seeded", "skipped", "error"
	)

	// Audit trail
	AuditEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Total number of audit events by outcome of the write",
		},
		[]string{"type", "result"}, // "saved", "dropped", "error"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBOperation records a directory store operation. errorType is empty
// on success.
func RecordDBOperation(operation, collection string, duration time.Duration, errorType string) {
	DBOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if errorType != "" {
		DBOperationErrors.WithLabelValues(operation, collection, errorType).Inc()
	}
}

// SetRecordCount updates the per-collection record gauge.
func SetRecordCount(collection string, n int) {
	DBRecords.WithLabelValues(collection).Set(float64(n))
}

// RecordSpatialQuery records a nearest-device query.
func RecordSpatialQuery(duration time.Duration, results int) {
	SpatialQueryDuration.Observe(duration.Seconds())
	SpatialQueryResults.Observe(float64(results))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
