// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package models

import "time"

// ImageStatus is the review verdict on a capture.
type ImageStatus string

const (
	ImageStatusLegal      ImageStatus = "legal"
	ImageStatusIllegal    ImageStatus = "illegal"
	ImageStatusUnreviewed ImageStatus = "unreviewed"
)

// Valid reports whether s is a known image status.
func (s ImageStatus) Valid() bool {
	switch s {
	case ImageStatusLegal, ImageStatusIllegal, ImageStatusUnreviewed:
		return true
	}
	return false
}

// ImageRecord is a camera capture. Only the filename is kept; the image
// bytes live with the static file host.
type ImageRecord struct {
	ImageID    string      `json:"image_id"`
	DeviceID   string      `json:"device_id"`
	Filename   string      `json:"filename"`
	Status     ImageStatus `json:"status"`
	Notes      *string     `json:"notes"`
	CapturedAt time.Time   `json:"captured_at"`
	ReviewedBy *string     `json:"reviewed_by"`
	ReviewedAt *time.Time  `json:"reviewed_at"`
}

// ImageFilter narrows an image listing. Zero fields match everything.
// From and To bound CapturedAt inclusively.
type ImageFilter struct {
	Status   ImageStatus
	DeviceID string
	From     *time.Time
	To       *time.Time
}

// Matches reports whether img passes the filter.
func (f ImageFilter) Matches(img *ImageRecord) bool {
	if f.Status != "" && img.Status != f.Status {
		return false
	}
	if f.DeviceID != "" && img.DeviceID != f.DeviceID {
		return false
	}
	if f.From != nil && img.CapturedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && img.CapturedAt.After(*f.To) {
		return false
	}
	return true
}

// ImageUpdate is the body of PUT /api/camera/images/{id}/tag.
type ImageUpdate struct {
	Status ImageStatus `json:"status" validate:"required,image_status"`
	Notes  *string     `json:"notes" validate:"omitempty,max=2048"`
}

// ImageNotes is the body of POST /api/camera/images/{id}/notes.
type ImageNotes struct {
	Notes string `json:"notes" validate:"max=2048"`
}
