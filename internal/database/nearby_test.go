// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"errors"
	"math"
	"testing"
)

const (
	centerLat = 51.505
	centerLng = -0.09
)

func nearbyIDs(t *testing.T, db *DB, lng, lat, radius float64) []string {
	t.Helper()
	got, err := db.FindDevicesNear(context.Background(), lng, lat, radius)
	if err != nil {
		t.Fatalf("FindDevicesNear() error = %v", err)
	}
	ids := make([]string, len(got))
	for i, d := range got {
		ids[i] = d.DeviceID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFindDevicesNear_NearestFirst(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	// inserted out of distance order on purpose
	mustCreateDevice(t, db, deviceCreate("FAR", centerLat+latOffset(2000), centerLng))
	mustCreateDevice(t, db, deviceCreate("MID", centerLat+latOffset(500), centerLng))
	mustCreateDevice(t, db, deviceCreate("EDGE-OUT", centerLat-latOffset(1001), centerLng))
	mustCreateDevice(t, db, deviceCreate("HERE", centerLat, centerLng))
	mustCreateDevice(t, db, deviceCreate("EDGE-IN", centerLat-latOffset(999), centerLng))

	got, err := db.FindDevicesNear(context.Background(), centerLng, centerLat, 1000)
	if err != nil {
		t.Fatalf("FindDevicesNear() error = %v", err)
	}

	want := []string{"HERE", "MID", "EDGE-IN"}
	if len(got) != len(want) {
		t.Fatalf("FindDevicesNear() returned %d devices, want %d", len(got), len(want))
	}
	for i, d := range got {
		if d.DeviceID != want[i] {
			t.Errorf("result[%d] = %s, want %s", i, d.DeviceID, want[i])
		}
		if d.DistanceMeters > 1000 {
			t.Errorf("%s distance = %v, beyond radius", d.DeviceID, d.DistanceMeters)
		}
		if i > 0 && got[i-1].DistanceMeters > d.DistanceMeters {
			t.Errorf("results not ordered by distance at %d", i)
		}
	}
	if math.Abs(got[1].DistanceMeters-500) > 0.5 {
		t.Errorf("MID distance = %v, want ~500", got[1].DistanceMeters)
	}
}

func TestFindDevicesNear_DefaultRadius(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	mustCreateDevice(t, db, deviceCreate("NEAR", centerLat+latOffset(800), centerLng))
	mustCreateDevice(t, db, deviceCreate("FAR", centerLat+latOffset(1500), centerLng))

	for _, radius := range []float64{0, -5} {
		if got := nearbyIDs(t, db, centerLng, centerLat, radius); !equalIDs(got, []string{"NEAR"}) {
			t.Errorf("FindDevicesNear(radius=%v) = %v, want [NEAR]", radius, got)
		}
	}
	if got := nearbyIDs(t, db, centerLng, centerLat, 2000); !equalIDs(got, []string{"NEAR", "FAR"}) {
		t.Errorf("FindDevicesNear(radius=2000) = %v, want [NEAR FAR]", got)
	}
}

func TestFindDevicesNear_TiesByID(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	for _, id := range []string{"B", "C", "A"} {
		mustCreateDevice(t, db, deviceCreate(id, centerLat+latOffset(100), centerLng))
	}

	if got := nearbyIDs(t, db, centerLng, centerLat, 1000); !equalIDs(got, []string{"A", "B", "C"}) {
		t.Errorf("FindDevicesNear() = %v, want [A B C]", got)
	}
}

func TestFindDevicesNear_Empty(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	got, err := db.FindDevicesNear(context.Background(), 10, 10, 1000)
	if err != nil {
		t.Fatalf("FindDevicesNear() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("FindDevicesNear() = %v, want empty non-nil slice", got)
	}
}

func TestFindDevicesNear_InvalidCoordinates(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	tests := []struct {
		name     string
		lng, lat float64
	}{
		{"latitude too high", 0, 91},
		{"longitude too low", -181, 0},
		{"NaN latitude", 0, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.FindDevicesNear(context.Background(), tt.lng, tt.lat, 1000); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("FindDevicesNear() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
