// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package models

import "time"

// AlertSeverity ranks an alert.
type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "critical"
	SeverityWarning  AlertSeverity = "warning"
	SeverityInfo     AlertSeverity = "info"
)

// Valid reports whether s is a known severity.
func (s AlertSeverity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Default and overview page sizes for alert listings.
const (
	DefaultAlertLimit  = 10
	OverviewAlertLimit = 5
)

// Alert is an event raised against a device. DeviceID is a plain reference;
// the device may not exist in the directory.
type Alert struct {
	AlertID        string        `json:"alert_id"`
	DeviceID       string        `json:"device_id"`
	Type           string        `json:"type"`
	Message        string        `json:"message"`
	Severity       AlertSeverity `json:"severity"`
	Acknowledged   bool          `json:"acknowledged"`
	AcknowledgedBy *string       `json:"acknowledged_by"`
	CreatedAt      time.Time     `json:"created_at"`
}

// AlertCreate carries the fields accepted when raising an alert.
type AlertCreate struct {
	DeviceID string        `json:"device_id" validate:"required,max=64"`
	Type     string        `json:"type" validate:"required,max=64"`
	Message  string        `json:"message" validate:"required,max=1024"`
	Severity AlertSeverity `json:"severity" validate:"required,alert_severity"`
}
