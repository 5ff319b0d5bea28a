// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package services

import (
	"context"
	"time"

	"github.com/tomtom215/sentinelguard/internal/logging"
)

// DefaultAuditCleanupInterval is used when NewAuditRetentionService gets a
// non-positive interval.
const DefaultAuditCleanupInterval = 24 * time.Hour

// AuditPruner is satisfied by *audit.Logger.
type AuditPruner interface {
	Prune(ctx context.Context) (int64, error)
}

// AuditRetentionService deletes expired audit events. It prunes once at
// start so a long-stopped server catches up immediately.
type AuditRetentionService struct {
	pruner   AuditPruner
	interval time.Duration
	name     string
}

// NewAuditRetentionService creates a retention service running every interval.
func NewAuditRetentionService(pruner AuditPruner, interval time.Duration) *AuditRetentionService {
	if interval <= 0 {
		interval = DefaultAuditCleanupInterval
	}
	return &AuditRetentionService{
		pruner:   pruner,
		interval: interval,
		name:     "audit-retention",
	}
}

// Serve implements suture.Service.
func (s *AuditRetentionService) Serve(ctx context.Context) error {
	s.prune(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.prune(ctx)
		}
	}
}

func (s *AuditRetentionService) prune(ctx context.Context) {
	logger := logging.WithComponent(s.name)
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn().Err(err).Msg("Audit cleanup failed")
		}
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Msg("Cleaned up expired audit events")
	}
}

// String implements fmt.Stringer.
func (s *AuditRetentionService) String() string {
	return s.name
}
