// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

// Query parameter structs, validated with go-playground/validator before the
// repository is called. JSON bodies use the request types in internal/models.

// AlertsRequest holds the /api/dashboard/alerts query. Limit 0 returns
// every alert.
type AlertsRequest struct {
	Limit int `validate:"min=0,max=100"`
}

// NearbyRequest holds the /api/map/devices/nearby query.
//
// Fields:
//   - Longitude, Latitude: WGS84 degrees, both required
//   - Radius: metres, defaults to the configured radius (1000 unless overridden)
type NearbyRequest struct {
	Longitude float64 `validate:"longitude"`
	Latitude  float64 `validate:"latitude"`
	Radius    float64 `validate:"gt=0,lte=50000"`
}

// ImagesRequest holds the /api/camera/images query. From and To are RFC3339
// and bound captured_at inclusively.
type ImagesRequest struct {
	Status   string `validate:"omitempty,image_status"`
	DeviceID string `validate:"omitempty,max=64"`
	From     string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To       string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// AuditEventsRequest holds the /api/audit/events query.
type AuditEventsRequest struct {
	Type    string `validate:"omitempty,max=64"`
	Actor   string `validate:"omitempty,max=64"`
	Target  string `validate:"omitempty,max=128"`
	Outcome string `validate:"omitempty,oneof=success failure"`
	From    string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To      string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit   int    `validate:"min=1,max=500"`
}
