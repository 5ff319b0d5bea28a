// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package authz

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts authorization decisions by role, resource, action, and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "resource_pattern", "action", "decision"},
	)

	// AuthzDecisionDuration tracks the latency of authorization decisions.
	AuthzDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"role", "cache_hit"},
	)

	// AuthzDeniedTotal specifically tracks denied requests for alerting.
	AuthzDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Total number of authorization denials (for alerting)",
		},
		[]string{"role", "resource_pattern", "action"},
	)

	// AuthzCacheHitsTotal counts cache hits for authorization decisions.
	AuthzCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_hits_total",
			Help: "Total number of authorization cache hits",
		},
	)

	// AuthzCacheMissesTotal counts cache misses for authorization decisions.
	AuthzCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_misses_total",
			Help: "Total number of authorization cache misses",
		},
	)

	// AuthzCacheSize tracks the current size of the authorization cache.
	AuthzCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_cache_entries",
			Help: "Current number of entries in the authorization cache",
		},
	)

	// AuthzCacheEvictionsTotal counts cache evictions.
	AuthzCacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "authz_cache_evictions_total",
			Help: "Total number of authorization cache evictions (TTL expiry)",
		},
	)

	// AuthzCacheInvalidationsTotal counts cache invalidations.
	AuthzCacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_cache_invalidations_total",
			Help: "Total number of authorization cache invalidations",
		},
		[]string{"reason"}, // "policy_update"
	)

	// AuthzPolicyReloadsTotal counts policy reloads.
	AuthzPolicyReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_policy_reloads_total",
			Help: "Total number of policy reloads",
		},
		[]string{"result"}, // "success", "failure"
	)

	// AuthzPolicyRulesTotal tracks the current number of policy rules.
	AuthzPolicyRulesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_policy_rules_total",
			Help: "Current number of policy rules loaded",
		},
	)

	// AuthzGroupingRulesTotal tracks the current number of grouping rules (role hierarchy).
	AuthzGroupingRulesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "authz_grouping_rules_total",
			Help: "Current number of grouping rules (role hierarchy)",
		},
	)

	// AuthzErrorsTotal counts authorization errors (not denials).
	AuthzErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_errors_total",
			Help: "Total number of authorization errors",
		},
		[]string{"error_type"},
	)
)

// RecordAuthzDecision records an authorization decision metric.
// Parameters:
//   - role: the role used for the decision (e.g., "Operator", "Viewer")
//   - resource: the request path (normalized to a pattern)
//   - action: "read", "write" or "delete"
//   - allowed: whether the request was allowed
//   - duration: how long the check took
//   - cacheHit: whether the decision came from cache
func RecordAuthzDecision(role, resource, action string, allowed bool, duration time.Duration, cacheHit bool) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}

	resourcePattern := normalizeResourcePattern(resource)
	AuthzDecisionsTotal.WithLabelValues(role, resourcePattern, action, decision).Inc()

	cacheHitLabel := "false"
	if cacheHit {
		cacheHitLabel = "true"
	}
	AuthzDecisionDuration.WithLabelValues(role, cacheHitLabel).Observe(duration.Seconds())

	if !allowed {
		AuthzDeniedTotal.WithLabelValues(role, resourcePattern, action).Inc()
	}

	if cacheHit {
		AuthzCacheHitsTotal.Inc()
	} else {
		AuthzCacheMissesTotal.Inc()
	}
}

// normalizeResourcePattern collapses identifier segments to keep label
// cardinality bounded. Device and image ids are not numeric, so every
// segment following a known collection is replaced too:
//
//	/api/camera/images/IMG-123/tag -> /api/camera/images/*/tag
//	/api/dashboard/alerts/42/ack   -> /api/dashboard/alerts/*/ack
func normalizeResourcePattern(resource string) string {
	segments := strings.FieldsFunc(resource, func(r rune) bool { return r == '/' })
	for i := 1; i < len(segments); i++ {
		if collectionSegments[segments[i-1]] && segments[i] != "nearby" {
			segments[i] = "*"
		}
	}
	return "/" + strings.Join(segments, "/")
}

var collectionSegments = map[string]bool{
	"devices": true,
	"alerts":  true,
	"images":  true,
}

// RecordAuthzCacheEviction records a cache eviction.
func RecordAuthzCacheEviction() {
	AuthzCacheEvictionsTotal.Inc()
}

// RecordAuthzCacheInvalidation records a cache invalidation with reason.
func RecordAuthzCacheInvalidation(reason string) {
	AuthzCacheInvalidationsTotal.WithLabelValues(reason).Inc()
}

// UpdateAuthzCacheSize updates the current cache size gauge.
func UpdateAuthzCacheSize(size int) {
	AuthzCacheSize.Set(float64(size))
}

// RecordPolicyReload records a policy reload event.
func RecordPolicyReload(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	AuthzPolicyReloadsTotal.WithLabelValues(result).Inc()
}

// UpdatePolicyStats updates policy-related gauges.
func UpdatePolicyStats(policyRules, groupingRules int) {
	AuthzPolicyRulesTotal.Set(float64(policyRules))
	AuthzGroupingRulesTotal.Set(float64(groupingRules))
}

// RecordAuthzError records an authorization error.
func RecordAuthzError(errorType string) {
	AuthzErrorsTotal.WithLabelValues(errorType).Inc()
}
