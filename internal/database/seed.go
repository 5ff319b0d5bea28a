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

	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/metrics"
	"github.com/tomtom215/sentinelguard/internal/models"
)

// Demo operator credentials created by SeedMockData.
const (
	SeedUsername = "operator"
	SeedPassword = "password"
)

const seedDescription = "Monitoring device located at perimeter zone"

// SeedResult counts the records SeedMockData inserted.
type SeedResult struct {
	Users   int `json:"users"`
	Devices int `json:"devices"`
	Images  int `json:"images"`
	Alerts  int `json:"alerts"`
}

// Total returns the number of inserted records.
func (r SeedResult) Total() int {
	return r.Users + r.Devices + r.Images + r.Alerts
}

var seedDevices = []models.DeviceCreate{
	{DeviceID: "MAG-001-A", Name: "Magnetometer Unit 1", Type: models.DeviceTypeSensorNode, Latitude: 51.505, Longitude: -0.09},
	{DeviceID: "CAM-002-B", Name: "Security Camera 2", Type: models.DeviceTypeCamera, Latitude: 51.506, Longitude: -0.08},
	{DeviceID: "GW-003-C", Name: "Gateway Node 3", Type: models.DeviceTypeGateway, Latitude: 51.504, Longitude: -0.10},
	{DeviceID: "MAG-004-D", Name: "Perimeter Sensor 4", Type: models.DeviceTypeSensorNode, Latitude: 51.507, Longitude: -0.09},
	{DeviceID: "CAM-005-E", Name: "Entrance Camera 5", Type: models.DeviceTypeCamera, Latitude: 51.503, Longitude: -0.11},
}

func seedImages() []models.ImageRecord {
	patrol := "Regular patrol activity"
	return []models.ImageRecord{
		{
			ImageID:    "img-001",
			DeviceID:   "CAM-002-B",
			Filename:   "capture_20240726_1030.jpg",
			Status:     models.ImageStatusIllegal,
			CapturedAt: time.Date(2024, 7, 26, 10, 30, 0, 0, time.UTC),
		},
		{
			ImageID:    "img-002",
			DeviceID:   "CAM-005-E",
			Filename:   "capture_20240726_0915.jpg",
			Status:     models.ImageStatusLegal,
			Notes:      &patrol,
			CapturedAt: time.Date(2024, 7, 26, 9, 15, 0, 0, time.UTC),
		},
		{
			ImageID:    "img-003",
			DeviceID:   "CAM-002-B",
			Filename:   "capture_20240725_1600.jpg",
			Status:     models.ImageStatusUnreviewed,
			CapturedAt: time.Date(2024, 7, 25, 16, 0, 0, 0, time.UTC),
		},
	}
}

// SeedMockData inserts the demo operator, devices, images and alert.
// Records that already exist are left alone, so repeated calls are safe.
// The sample alert is only raised when the directory has no alerts.
func (db *DB) SeedMockData(ctx context.Context) (SeedResult, error) {
	var res SeedResult
	err := db.seed(ctx, &res)

	result := "seeded"
	switch {
	case err != nil:
		result = "error"
	case res.Total() == 0:
		result = "skipped"
	}
	metrics.SeedRuns.WithLabelValues(result).Inc()

	if err != nil {
		return res, err
	}
	logging.Ctx(ctx).Info().
		Int("users", res.Users).
		Int("devices", res.Devices).
		Int("images", res.Images).
		Int("alerts", res.Alerts).
		Msg("Mock data seeded")
	return res, nil
}

func (db *DB) seed(ctx context.Context, res *SeedResult) error {
	user, err := db.FindUser(ctx, SeedUsername)
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	if user == nil {
		if _, err := db.CreateUser(ctx, SeedUsername, SeedPassword, models.RoleOperator); err == nil {
			res.Users++
		} else if !errors.Is(err, ErrDuplicateKey) {
			return fmt.Errorf("seed user: %w", err)
		}
	}

	for _, d := range seedDevices {
		desc := seedDescription
		d.Description = &desc
		if _, err := db.CreateDevice(ctx, d); err == nil {
			res.Devices++
		} else if !errors.Is(err, ErrDuplicateKey) {
			return fmt.Errorf("seed device %s: %w", d.DeviceID, err)
		}
	}

	for _, img := range seedImages() {
		if _, err := db.CreateImage(ctx, img); err == nil {
			res.Images++
		} else if !errors.Is(err, ErrDuplicateKey) {
			return fmt.Errorf("seed image %s: %w", img.ImageID, err)
		}
	}

	existing, err := db.ListAlerts(ctx, 1)
	if err != nil {
		return fmt.Errorf("seed alert: %w", err)
	}
	if len(existing) == 0 {
		_, err := db.CreateAlert(ctx, "MAG-001-A", "voltage_spike",
			"Unexpected voltage spike detected in Magnetometer Unit 1. Review system logs immediately.",
			models.SeverityCritical)
		if err != nil {
			return fmt.Errorf("seed alert: %w", err)
		}
		res.Alerts++
	}
	return nil
}
