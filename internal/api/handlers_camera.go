// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/models"
	"github.com/tomtom215/sentinelguard/internal/present"
)

// LiveFeed handles GET /api/camera/live-feed.
func (h *Handler) LiveFeed(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(present.LiveFeed())
}

// Images handles GET /api/camera/images?status=&device_id=&from=&to=,
// newest capture first.
func (h *Handler) Images(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := ImagesRequest{
		Status:   q.Get("status"),
		DeviceID: q.Get("device_id"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	filter := models.ImageFilter{
		Status:   models.ImageStatus(req.Status),
		DeviceID: req.DeviceID,
		From:     parseTimeParam(req.From),
		To:       parseTimeParam(req.To),
	}

	images, err := h.db.ListImages(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err, "Image")
		return
	}
	NewResponseWriter(w, r).Success(present.ToGalleryItems(images))
}

// TagImage handles PUT /api/camera/images/{id}/tag with {status, notes}.
// Omitting notes clears them.
func (h *Handler) TagImage(w http.ResponseWriter, r *http.Request) {
	var req models.ImageUpdate
	if !decodeAndValidate(w, r, &req) {
		return
	}

	img, err := h.db.UpdateImage(r.Context(), chi.URLParam(r, "id"), req.Status, req.Notes, currentUser(r).Username)
	if err != nil {
		writeDomainError(w, r, err, "Image")
		return
	}
	h.auditChange(r, audit.EventTypeImageTagged, audit.Target{ID: chi.URLParam(r, "id"), Type: "image"},
		"Image tagged", map[string]interface{}{"status": req.Status})
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"message": "Image tagged successfully",
		"image":   img,
	})
}

// SaveImageNotes handles POST /api/camera/images/{id}/notes. Notes come from
// a JSON body {"notes": "..."} or, for form-less clients, from ?notes=.
func (h *Handler) SaveImageNotes(w http.ResponseWriter, r *http.Request) {
	var req models.ImageNotes
	if isJSONRequest(r) {
		if !decodeAndValidate(w, r, &req) {
			return
		}
	} else {
		notes, ok := r.URL.Query()["notes"]
		if !ok || len(notes) == 0 {
			NewResponseWriter(w, r).BadRequest("notes is required")
			return
		}
		req.Notes = notes[0]
		if !validateRequest(w, r, &req) {
			return
		}
	}

	if _, err := h.db.SaveImageNotes(r.Context(), chi.URLParam(r, "id"), req.Notes, currentUser(r).Username); err != nil {
		writeDomainError(w, r, err, "Image")
		return
	}
	h.auditChange(r, audit.EventTypeImageNotes, audit.Target{ID: chi.URLParam(r, "id"), Type: "image"},
		"Image notes saved", nil)
	NewResponseWriter(w, r).Success(map[string]string{"message": "Notes saved successfully"})
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// parseTimeParam parses an already validated RFC3339 value.
func parseTimeParam(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
