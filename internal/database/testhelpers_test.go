// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/sentinelguard/internal/cache"
	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/models"
)

// newTestDB opens an in-memory directory that is closed at cleanup.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(&config.DatabaseConfig{InMemory: true, DefaultRadiusMeters: 1000})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeClock returns increasing timestamps one second apart.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// latOffset converts a north-south distance in meters to degrees.
func latOffset(meters float64) float64 {
	return meters / (cache.EarthRadiusMeters * math.Pi / 180)
}

func deviceCreate(id string, lat, lng float64) models.DeviceCreate {
	return models.DeviceCreate{
		DeviceID:  id,
		Name:      "Device " + id,
		Type:      models.DeviceTypeSensorNode,
		Latitude:  lat,
		Longitude: lng,
	}
}

func mustCreateDevice(t *testing.T, db *DB, in models.DeviceCreate) *models.Device {
	t.Helper()
	d, err := db.CreateDevice(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateDevice(%s) error = %v", in.DeviceID, err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:      "directory-test-secret-at-least-32-characters",
		SessionTimeout: 30 * time.Minute,
	}
}

// runConcurrently calls fn from n goroutines at once and returns every
// non-nil error.
func runConcurrently(n int, fn func(i int) error) []error {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		errs  []error
		start = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if err := fn(i); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}
