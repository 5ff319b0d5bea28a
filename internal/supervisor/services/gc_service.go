// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/sentinelguard/internal/logging"
)

// DefaultGCInterval is used when NewGCService gets a non-positive interval.
const DefaultGCInterval = 10 * time.Minute

// ValueLogCollector is satisfied by *database.DB.
type ValueLogCollector interface {
	RunValueLogGC() (int, error)
}

// GCService periodically reclaims Badger value log space.
type GCService struct {
	store    ValueLogCollector
	interval time.Duration
	name     string
}

// NewGCService creates a GC service running every interval.
func NewGCService(store ValueLogCollector, interval time.Duration) *GCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	return &GCService{
		store:    store,
		interval: interval,
		name:     "badger-gc",
	}
}

// Serve implements suture.Service. GC errors are logged, not returned: a
// busy store rejects GC and the next tick tries again.
func (g *GCService) Serve(ctx context.Context) error {
	logger := logging.WithComponent(g.name)
	logger.Debug().Dur("interval", g.interval).Msg("Value log GC scheduled")

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.collect(logger)
		}
	}
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func (g *GCService) collect(logger zerolog.Logger) {
	start := time.Now()
	rewritten, err := g.store.RunValueLogGC()
	if err != nil {
		logger.Warn().Err(err).Int("rewritten", rewritten).Msg("Value log GC failed")
		return
	}
	if rewritten > 0 {
		logger.Info().Int("rewritten", rewritten).Dur("duration", time.Since(start)).Msg("Value log GC reclaimed space")
	}
}

// String implements fmt.Stringer.
func (g *GCService) String() string {
	return g.name
}
