// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*GCService)(nil)

type stubCollector struct {
	calls     atomic.Int32
	rewritten int
	err       error
}

func (s *stubCollector) RunValueLogGC() (int, error) {
	s.calls.Add(1)
	return s.rewritten, s.err
}

func TestNewGCService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{"explicit", time.Minute, time.Minute},
		{"zero uses default", 0, DefaultGCInterval},
		{"negative uses default", -time.Second, DefaultGCInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewGCService(&stubCollector{}, tt.interval)
			if svc.interval != tt.want {
				t.Errorf("interval = %v, want %v", svc.interval, tt.want)
			}
			if svc.String() != "badger-gc" {
				t.Errorf("String() = %q, want %q", svc.String(), "badger-gc")
			}
		})
	}
}

func TestGCService_RunsOnEachTick(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		collector *stubCollector
	}{
		{"reclaims", &stubCollector{rewritten: 2}},
		{"nothing to rewrite", &stubCollector{}},
		{"errors keep the loop alive", &stubCollector{err: errors.New("value log in use")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewGCService(tt.collector, 5*time.Millisecond)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			deadline := time.Now().Add(2 * time.Second)
			for tt.collector.calls.Load() < 3 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
			if got := tt.collector.calls.Load(); got < 3 {
				t.Errorf("RunValueLogGC calls = %d, want >= 3", got)
			}
		})
	}
}

func TestGCService_StopsBeforeFirstTick(t *testing.T) {
	t.Parallel()

	collector := &stubCollector{}
	svc := NewGCService(collector, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if got := collector.calls.Load(); got != 0 {
		t.Errorf("RunValueLogGC calls = %d, want 0", got)
	}
}
