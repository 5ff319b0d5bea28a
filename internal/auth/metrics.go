// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes used as the "outcome" label.
const (
	LoginOutcomeSuccess            = "success"
	LoginOutcomeInvalidCredentials = "invalid_credentials"
	LoginOutcomeRoleMismatch       = "role_mismatch"
)

var (
	// LoginAttempts counts login attempts.
	// Labels:
	//   - outcome: "success", "invalid_credentials", "role_mismatch"
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelguard_login_attempts_total",
			Help: "Total number of dashboard login attempts",
		},
		[]string{"outcome"},
	)

	// TokenValidations counts bearer token checks.
	// Labels:
	//   - outcome: "valid", "invalid"
	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinelguard_token_validations_total",
			Help: "Total number of bearer token validations",
		},
		[]string{"outcome"},
	)

	// RateLimitedRequests counts requests rejected by the per-IP limiter.
	RateLimitedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinelguard_rate_limited_requests_total",
			Help: "Total number of requests rejected by the per-IP rate limiter",
		},
	)
)

// RecordLogin increments the login counter for outcome.
func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordTokenValidation increments the token validation counter.
func RecordTokenValidation(valid bool) {
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	TokenValidations.WithLabelValues(outcome).Inc()
}
