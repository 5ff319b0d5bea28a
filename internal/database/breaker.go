// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/metrics"
)

// BreakerName labels the store guard in logs and metrics.
const BreakerName = "directory-store"

// Store guard defaults.
const (
	DefaultBreakerFailures = 5
	DefaultBreakerOpenFor  = 30 * time.Second
)

// newStoreBreaker trips after failures consecutive store failures and stays
// open for openFor before letting a single probe through.
func newStoreBreaker(failures uint32, openFor time.Duration) *gobreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: 1,
		Timeout:     openFor,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= failures
			if trip {
				logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening directory store circuit")
			}
			return trip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || isDomainError(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
}

// guard runs fn through the breaker and records operation metrics. Badger
// errors are classified before the breaker sees them so domain outcomes
// count as successes.
func guard[T any](ctx context.Context, db *DB, op, collection string, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if db.closed.Load() {
		return zero, fmt.Errorf("%s: %w: store closed", op, ErrStoreUnavailable)
	}

	start := time.Now()
	result, err := db.breaker.Execute(func() (any, error) {
		v, err := fn()
		return v, classifyStoreError(op, err)
	})
	err = breakerError(op, err, db.breaker)
	metrics.RecordDBOperation(op, collection, time.Since(start), errorType(err))

	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", op, result)
	}
	return typed, nil
}

// breakerError maps rejections to ErrStoreUnavailable and keeps the
// breaker metrics current.
func breakerError(op string, err error, cb *gobreaker.CircuitBreaker[any]) error {
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(0)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "rejected").Inc()
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	case isDomainError(err):
		metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()
		return err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(BreakerName).Set(float64(cb.Counts().ConsecutiveFailures))
		return err
	}
}

// BreakerState returns the store guard state: "closed", "half-open" or "open".
func (db *DB) BreakerState() string {
	return stateToString(db.breaker.State())
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
