// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/models"
	"github.com/tomtom215/sentinelguard/internal/present"
)

// InitDashboard handles GET /api/dashboard/init, seeding the demo records.
// It is only enabled when database.seed_mock_data is set or the server runs
// in development.
func (h *Handler) InitDashboard(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if !h.config.Database.SeedMockData && !h.config.IsDevelopment() {
		rw.Error(http.StatusForbidden, ErrCodeForbidden, "Mock data seeding is disabled")
		return
	}

	result, err := h.db.SeedMockData(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Seed data")
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("users", result.Users).
		Int("devices", result.Devices).
		Int("images", result.Images).
		Int("alerts", result.Alerts).
		Msg("Mock data seeded on request")
	if result.Total() > 0 {
		h.audit.LogSeed(r.Context(), audit.Actor{Name: "dashboard-init", Type: "system"}, h.auditSource(r), result)
	}

	rw.Success(map[string]interface{}{
		"message":  "Mock data initialized",
		"inserted": result,
	})
}

// Overview handles GET /api/dashboard/overview.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	devices, err := h.db.ListDevices(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Device")
		return
	}
	alerts, err := h.db.ListAlerts(r.Context(), models.OverviewAlertLimit)
	if err != nil {
		writeDomainError(w, r, err, "Alert")
		return
	}

	NewResponseWriter(w, r).Success(present.BuildOverview(devices, alerts, h.now(), h.newRand()))
}

// Devices handles GET /api/dashboard/devices.
func (h *Handler) Devices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.db.ListDevices(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Device")
		return
	}
	NewResponseWriter(w, r).Success(devices)
}

// CreateDevice handles POST /api/dashboard/devices. 409 when the id is taken.
func (h *Handler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req models.DeviceCreate
	if !decodeAndValidate(w, r, &req) {
		return
	}

	device, err := h.db.CreateDevice(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "Device")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("device_id", device.DeviceID).
		Str("type", string(device.Type)).
		Str("by", currentUser(r).Username).
		Msg("Device registered")
	h.auditChange(r, audit.EventTypeDeviceCreated, audit.Target{ID: device.DeviceID, Type: "device"},
		"Device registered", map[string]interface{}{"type": device.Type, "name": device.Name})

	NewResponseWriter(w, r).Created(device)
}

// UpdateDevice handles PATCH /api/dashboard/devices/{id}. Omitted fields are
// left unchanged; every update refreshes the heartbeat.
func (h *Handler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	var req models.DeviceUpdate
	if !decodeAndValidate(w, r, &req) {
		return
	}

	req.Normalize()
	device, err := h.db.UpdateDevice(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, r, err, "Device")
		return
	}
	description := "Device updated"
	if req.IsEmpty() {
		description = "Device heartbeat refreshed"
	}
	h.auditChange(r, audit.EventTypeDeviceUpdated, audit.Target{ID: device.DeviceID, Type: "device"},
		description, map[string]interface{}{"status": device.Status})
	NewResponseWriter(w, r).Success(device)
}

// Alerts handles GET /api/dashboard/alerts?limit=N, newest first. limit=0
// lifts the cap.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	limit, ok := getIntParam(r, "limit", models.DefaultAlertLimit)
	if !ok {
		NewResponseWriter(w, r).BadRequest("limit must be an integer")
		return
	}
	req := AlertsRequest{Limit: limit}
	if !validateRequest(w, r, &req) {
		return
	}

	alerts, err := h.db.ListAlerts(r.Context(), req.Limit)
	if err != nil {
		writeDomainError(w, r, err, "Alert")
		return
	}
	NewResponseWriter(w, r).Success(alerts)
}

// Alert handles GET /api/dashboard/alerts/{id}.
func (h *Handler) Alert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.db.GetAlert(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, "Alert")
		return
	}
	NewResponseWriter(w, r).Success(alert)
}

// CreateAlert handles POST /api/dashboard/alerts. The device reference is
// not checked against the directory.
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req models.AlertCreate
	if !decodeAndValidate(w, r, &req) {
		return
	}

	alert, err := h.db.CreateAlert(r.Context(), req.DeviceID, req.Type, req.Message, req.Severity)
	if err != nil {
		writeDomainError(w, r, err, "Alert")
		return
	}
	h.auditChange(r, audit.EventTypeAlertCreated, audit.Target{ID: alert.AlertID, Type: "alert"},
		"Alert raised", map[string]interface{}{"device_id": alert.DeviceID, "severity": alert.Severity})
	NewResponseWriter(w, r).Created(alert)
}

// AcknowledgeAlert handles POST /api/dashboard/alerts/{id}/ack.
func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.db.AcknowledgeAlert(r.Context(), chi.URLParam(r, "id"), currentUser(r).Username)
	if err != nil {
		writeDomainError(w, r, err, "Alert")
		return
	}
	h.auditChange(r, audit.EventTypeAlertAcknowledged, audit.Target{ID: alert.AlertID, Type: "alert"},
		"Alert acknowledged", nil)
	NewResponseWriter(w, r).Success(alert)
}
