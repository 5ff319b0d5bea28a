// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package present

import "github.com/tomtom215/sentinelguard/internal/models"

// GalleryTimeLayout renders capture times, e.g. "2024-07-26 10:30 AM".
const GalleryTimeLayout = "2006-01-02 03:04 PM"

// GalleryItem is an image as listed in the camera gallery.
type GalleryItem struct {
	ID        string             `json:"id"`
	DeviceID  string             `json:"device_id"`
	Filename  string             `json:"filename"`
	Status    models.ImageStatus `json:"status"`
	Timestamp *string            `json:"timestamp"`
	Notes     *string            `json:"notes"`
}

// ToGalleryItem converts an image record. The timestamp is rendered in UTC
// and is null when the capture time is unknown.
func ToGalleryItem(img models.ImageRecord) GalleryItem {
	item := GalleryItem{
		ID:       img.ImageID,
		DeviceID: img.DeviceID,
		Filename: img.Filename,
		Status:   img.Status,
		Notes:    img.Notes,
	}
	if !img.CapturedAt.IsZero() {
		ts := img.CapturedAt.UTC().Format(GalleryTimeLayout)
		item.Timestamp = &ts
	}
	return item
}

// ToGalleryItems converts images in order. The result is never nil.
func ToGalleryItems(images []models.ImageRecord) []GalleryItem {
	items := make([]GalleryItem, 0, len(images))
	for _, img := range images {
		items = append(items, ToGalleryItem(img))
	}
	return items
}

// LiveFeedInfo describes the camera stream shown on the live view.
type LiveFeedInfo struct {
	StreamURL  string `json:"stream_url"`
	Status     string `json:"status"`
	CameraID   string `json:"camera_id"`
	Resolution string `json:"resolution"`
	FPS        int    `json:"fps"`
}

// LiveFeed returns the descriptor of the primary perimeter camera stream.
func LiveFeed() LiveFeedInfo {
	return LiveFeedInfo{
		StreamURL:  "/api/camera/stream",
		Status:     "live",
		CameraID:   "CAM-002-B",
		Resolution: "1920x1080",
		FPS:        30,
	}
}
