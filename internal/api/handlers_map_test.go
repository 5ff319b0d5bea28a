// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/tomtom215/sentinelguard/internal/models"
	"github.com/tomtom215/sentinelguard/internal/present"
)

func TestMapDevices(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login("viewer1", models.RoleViewer)
	env.mustCreateDevice("MAG-1", 51.505, -0.09)

	var resp present.PinResponse
	decodeEnvelope(t, env.do(http.MethodGet, "/api/map/devices", "", token), http.StatusOK, &resp)

	if len(resp.Pins) != 1 {
		t.Fatalf("len(pins) = %d, want 1", len(resp.Pins))
	}
	pin := resp.Pins[0]
	if pin.ID != "MAG-1" {
		t.Errorf("pin.id = %q, want MAG-1", pin.ID)
	}
	if pin.Position != [2]float64{51.505, -0.09} {
		t.Errorf("pin.position = %v, want [51.505 -0.09]", pin.Position)
	}
	if pin.DistanceMeters != nil {
		t.Errorf("pin.distance_m = %v, want omitted", *pin.DistanceMeters)
	}
}

func TestNearbyDevices(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login("viewer1", models.RoleViewer)

	// roughly 0 m, 111 m and 556 m north of the query point, plus one far away
	env.mustCreateDevice("FAR", 52.5, -0.09)
	env.mustCreateDevice("MID", 51.505, -0.09)
	env.mustCreateDevice("NEAR", 51.501, -0.09)
	env.mustCreateDevice("HERE", 51.500, -0.09)

	t.Run("nearest first within default radius", func(t *testing.T) {
		var resp present.PinResponse
		rec := env.do(http.MethodGet, "/api/map/devices/nearby?longitude=-0.09&latitude=51.5", "", token)
		decodeEnvelope(t, rec, http.StatusOK, &resp)

		want := []string{"HERE", "NEAR", "MID"}
		if len(resp.Pins) != len(want) {
			t.Fatalf("len(pins) = %d, want %d", len(resp.Pins), len(want))
		}
		prev := -1.0
		for i, pin := range resp.Pins {
			if pin.ID != want[i] {
				t.Errorf("pins[%d].id = %q, want %q", i, pin.ID, want[i])
			}
			if pin.DistanceMeters == nil {
				t.Fatalf("pins[%d].distance_m missing", i)
			}
			if *pin.DistanceMeters < prev {
				t.Errorf("pins[%d].distance_m = %v, not ascending", i, *pin.DistanceMeters)
			}
			prev = *pin.DistanceMeters
		}
	})

	t.Run("explicit radius", func(t *testing.T) {
		var resp present.PinResponse
		rec := env.do(http.MethodGet, "/api/map/devices/nearby?longitude=-0.09&latitude=51.5&radius=200", "", token)
		decodeEnvelope(t, rec, http.StatusOK, &resp)
		if len(resp.Pins) != 2 {
			t.Errorf("len(pins) = %d, want 2", len(resp.Pins))
		}
	})

	tests := []struct {
		name        string
		query       string
		wantCode    string
		wantMessage string
	}{
		{"missing latitude", "?longitude=-0.09", ErrCodeBadRequest, "longitude and latitude are required"},
		{"missing both", "", ErrCodeBadRequest, "longitude and latitude are required"},
		{"malformed longitude", "?longitude=west&latitude=51.5", ErrCodeBadRequest, "longitude, latitude and radius must be numbers"},
		{"malformed radius", "?longitude=-0.09&latitude=51.5&radius=far", ErrCodeBadRequest, "longitude, latitude and radius must be numbers"},
		{"latitude out of range", "?longitude=-0.09&latitude=95", ErrCodeValidation, ""},
		{"zero radius", "?longitude=-0.09&latitude=51.5&radius=0", ErrCodeValidation, ""},
		{"radius too large", "?longitude=-0.09&latitude=51.5&radius=60000", ErrCodeValidation, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/map/devices/nearby"+tt.query, "", token)
			wantError(t, rec, http.StatusBadRequest, tt.wantCode, tt.wantMessage)
		})
	}
}

func TestMapOverlaysAndFilterOptions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login("viewer1", models.RoleViewer)

	var overlays struct {
		Overlays []present.Overlay `json:"overlays"`
	}
	decodeEnvelope(t, env.do(http.MethodGet, "/api/map/overlays", "", token), http.StatusOK, &overlays)
	if len(overlays.Overlays) != len(present.Overlays()) {
		t.Errorf("len(overlays) = %d, want %d", len(overlays.Overlays), len(present.Overlays()))
	}

	var opts present.FilterOptionSet
	decodeEnvelope(t, env.do(http.MethodGet, "/api/map/filters", "", token), http.StatusOK, &opts)
	if len(opts.StatusFilters) != len(models.DeviceStatuses) {
		t.Errorf("len(status_filters) = %d, want %d", len(opts.StatusFilters), len(models.DeviceStatuses))
	}
	if len(opts.TypeFilters) != len(models.DeviceTypes) {
		t.Errorf("len(type_filters) = %d, want %d", len(opts.TypeFilters), len(models.DeviceTypes))
	}
}

func TestApplyMapFilters(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	// Viewers may apply filters even though other writes are denied.
	token := env.login("viewer1", models.RoleViewer)
	ctx := context.Background()

	env.mustCreateDevice("MAG-1", 51.5, -0.1)
	env.mustCreateDevice("MAG-2", 51.5, -0.1)
	if _, err := env.db.CreateDevice(ctx, models.DeviceCreate{
		DeviceID: "CAM-1", Name: "Camera", Type: models.DeviceTypeCamera, Latitude: 51.5, Longitude: -0.1,
	}); err != nil {
		t.Fatalf("CreateDevice() error = %v", err)
	}
	alert := models.DeviceStatusAlert
	if _, err := env.db.UpdateDevice(ctx, "MAG-2", models.DeviceUpdate{Status: &alert}); err != nil {
		t.Fatalf("UpdateDevice() error = %v", err)
	}

	tests := []struct {
		name    string
		body    string
		wantIDs []string
	}{
		{"safe sensors", `{"safe":true,"sensorNode":true}`, []string{"MAG-1"}},
		{"all sensors", `{"safe":true,"alert":true,"sensorNode":true}`, []string{"MAG-1", "MAG-2"}},
		{"safe anything", `{"safe":true,"sensorNode":true,"camera":true,"gateway":true}`, []string{"CAM-1", "MAG-1"}},
		{"nothing enabled", `{}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp present.PinResponse
			decodeEnvelope(t, env.do(http.MethodPost, "/api/map/filters", tt.body, token), http.StatusOK, &resp)

			got := map[string]bool{}
			for _, p := range resp.Pins {
				got[p.ID] = true
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("pins = %v, want %v", got, tt.wantIDs)
			}
			for _, id := range tt.wantIDs {
				if !got[id] {
					t.Errorf("pin %q missing from %v", id, got)
				}
			}
		})
	}

	rec := env.do(http.MethodPost, "/api/map/filters", `["safe"]`, token)
	wantError(t, rec, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON request body")
}
