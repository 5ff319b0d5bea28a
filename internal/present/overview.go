// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package present

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/sentinelguard/internal/models"
)

// UnknownStatusKey collects devices whose status is outside the known set.
const UnknownStatusKey = "unknown"

// Simulated magnetometer telemetry.
const (
	baselineVoltage    = 3.25
	trendJitter        = 0.1
	readingJitter      = 0.05
	trendPoints        = 60
	heartbeatFreshness = 5 * time.Minute
)

// StatusCounts tallies devices by status. The safe, warning and alert keys
// are always present; anything else is counted under UnknownStatusKey,
// which is only added when needed.
func StatusCounts(devices []models.Device) map[string]int {
	counts := make(map[string]int, len(models.DeviceStatuses)+1)
	for _, s := range models.DeviceStatuses {
		counts[string(s)] = 0
	}
	for _, d := range devices {
		if d.Status.Valid() {
			counts[string(d.Status)]++
		} else {
			counts[UnknownStatusKey]++
		}
	}
	return counts
}

// VoltagePoint is one sample of the voltage chart.
type VoltagePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Voltage   float64   `json:"voltage"`
}

// VoltageTrend simulates one reading per minute for the hour before now.
func VoltageTrend(now time.Time, rng *rand.Rand) []VoltagePoint {
	start := now.UTC().Add(-time.Hour)
	points := make([]VoltagePoint, trendPoints)
	for i := range points {
		points[i] = VoltagePoint{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Voltage:   jitter(rng, trendJitter),
		}
	}
	return points
}

// MagnetometerReading simulates the current magnetometer voltage.
func MagnetometerReading(rng *rand.Rand) float64 {
	return jitter(rng, readingJitter)
}

// jitter returns the baseline voltage plus a uniform offset in
// [-spread, spread), rounded to millivolts.
func jitter(rng *rand.Rand, spread float64) float64 {
	v := baselineVoltage + (rng.Float64()*2-1)*spread
	return math.Round(v*1000) / 1000
}

// Summary is the headline block of the dashboard overview.
type Summary struct {
	TotalDevices        int            `json:"total_devices"`
	MagnetometerVoltage float64        `json:"magnetometer_voltage"`
	PerimeterStatus     string         `json:"perimeter_status"`
	SystemHeartbeat     string         `json:"system_heartbeat"`
	DeviceStatusCounts  map[string]int `json:"device_status_counts"`
}

// SystemStatusEntry is one row of the device health table.
type SystemStatusEntry struct {
	DeviceID   string `json:"device_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	LastUpdate string `json:"last_update"`
}

// Overview is the dashboard landing payload.
type Overview struct {
	Summary      Summary             `json:"summary"`
	VoltageTrend []VoltagePoint      `json:"voltage_trend"`
	RecentAlerts []models.Alert      `json:"recent_alerts"`
	SystemStatus []SystemStatusEntry `json:"system_status"`
}

// BuildOverview assembles the overview from the current devices and the
// most recent alerts.
func BuildOverview(devices []models.Device, alerts []models.Alert, now time.Time, rng *rand.Rand) Overview {
	counts := StatusCounts(devices)
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return Overview{
		Summary: Summary{
			TotalDevices:        len(devices),
			MagnetometerVoltage: MagnetometerReading(rng),
			PerimeterStatus:     PerimeterStatus(counts),
			SystemHeartbeat:     "Online",
			DeviceStatusCounts:  counts,
		},
		VoltageTrend: VoltageTrend(now, rng),
		RecentAlerts: alerts,
		SystemStatus: SystemStatus(devices, now),
	}
}

// PerimeterStatus reduces status counts to the banner shown on the
// dashboard: the worst status present wins.
func PerimeterStatus(counts map[string]int) string {
	switch {
	case counts[string(models.DeviceStatusAlert)] > 0:
		return "Alert"
	case counts[string(models.DeviceStatusWarning)] > 0:
		return "Warning"
	default:
		return "Safe"
	}
}

// SystemStatus reports each device as Online when its last heartbeat is
// recent and Offline otherwise.
func SystemStatus(devices []models.Device, now time.Time) []SystemStatusEntry {
	entries := make([]SystemStatusEntry, 0, len(devices))
	for _, d := range devices {
		age := now.Sub(d.LastHeartbeat)
		status := "Online"
		if age > heartbeatFreshness {
			status = "Offline"
		}
		entries = append(entries, SystemStatusEntry{
			DeviceID:   d.DeviceID,
			Name:       d.Name,
			Status:     status,
			LastUpdate: Ago(age),
		})
	}
	return entries
}

// Ago renders an elapsed duration the way the status table shows it,
// e.g. "just now", "1 minute ago", "3 hours ago".
func Ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	default:
		return plural(int(d/(24*time.Hour)), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
