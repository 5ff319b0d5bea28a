// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package middleware provides the infrastructure middleware shared by every
SentinelGuard route: request IDs, Prometheus instrumentation and gzip
compression.

Each middleware has the func(http.HandlerFunc) http.HandlerFunc shape used
by the auth and authz packages; the api package adapts them to chi with a
single helper.

Typical order on an authenticated route group:

	RequestID -> PrometheusMetrics -> Compression -> Authenticate -> Authorize -> handler

RequestID runs first so every log line and error envelope written further
down carries the same request_id.
*/
package middleware
