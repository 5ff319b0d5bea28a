// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"net/http"

	"github.com/tomtom215/sentinelguard/internal/present"
)

// MapDevices handles GET /api/map/devices.
func (h *Handler) MapDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.db.ListDevices(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Device")
		return
	}
	NewResponseWriter(w, r).Success(present.PinResponse{Pins: present.ToMapPins(devices)})
}

// NearbyDevices handles GET /api/map/devices/nearby?longitude=&latitude=&radius=.
// Pins are nearest first and carry distance_m.
func (h *Handler) NearbyDevices(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	lng, lngOK, lngErr := getFloatParam(r, "longitude")
	lat, latOK, latErr := getFloatParam(r, "latitude")
	radius, radiusOK, radiusErr := getFloatParam(r, "radius")
	switch {
	case !lngOK || !latOK:
		rw.BadRequest("longitude and latitude are required")
		return
	case lngErr != nil || latErr != nil || radiusErr != nil:
		rw.BadRequest("longitude, latitude and radius must be numbers")
		return
	}
	if !radiusOK {
		radius = h.db.DefaultRadius()
	}

	req := NearbyRequest{Longitude: lng, Latitude: lat, Radius: radius}
	if !validateRequest(w, r, &req) {
		return
	}

	devices, err := h.db.FindDevicesNear(r.Context(), req.Longitude, req.Latitude, req.Radius)
	if err != nil {
		writeDomainError(w, r, err, "Device")
		return
	}
	rw.Success(present.PinResponse{Pins: present.NearbyPins(devices)})
}

// MapOverlays handles GET /api/map/overlays.
func (h *Handler) MapOverlays(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{"overlays": present.Overlays()})
}

// MapFilterOptions handles GET /api/map/filters.
func (h *Handler) MapFilterOptions(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(present.FilterOptions())
}

// ApplyMapFilters handles POST /api/map/filters. The body maps status and
// type values to booleans, e.g. {"safe":true,"camera":true}; a device is
// kept only when both its status and its type are enabled.
func (h *Handler) ApplyMapFilters(w http.ResponseWriter, r *http.Request) {
	var filters map[string]bool
	if err := decodeJSON(w, r, &filters); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}

	devices, err := h.db.ListDevices(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "Device")
		return
	}
	NewResponseWriter(w, r).Success(present.PinResponse{Pins: present.FilterPins(devices, filters)})
}
