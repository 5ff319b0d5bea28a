// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in the Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Directory store:
  - directory_store_operation_duration_seconds (histogram)
    Labels: operation, collection
  - directory_store_operation_errors_total (counter)
    Labels: operation, collection, error_type
  - directory_records (gauge)
    Labels: collection
  - directory_store_value_log_gc_runs_total (counter)
    Labels: result
  - directory_seed_runs_total (counter)
    Labels: result

Spatial index:
  - spatial_index_entries (gauge)
  - spatial_query_duration_seconds (histogram)
  - spatial_query_results (histogram)

API:
  - api_requests_total (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds (histogram)
    Labels: method, endpoint
  - api_active_requests (gauge)
  - api_rate_limit_hits_total (counter)
    Labels: endpoint

Circuit breaker:
  - circuit_breaker_state (gauge, 0=closed 1=half-open 2=open)
  - circuit_breaker_requests_total (counter)
    Labels: name, result
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total (counter)
    Labels: name, from_state, to_state

Authentication and authorization metrics live next to their code in
internal/auth and internal/authz.

# Example Alert

	- alert: DirectoryStoreCircuitOpen
	  expr: circuit_breaker_state{name="directory-store"} == 2
	  for: 1m
	  labels:
	    severity: critical
	  annotations:
	    summary: "Directory store is failing fast"
*/
package metrics
