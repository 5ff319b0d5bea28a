// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sentinelguard/internal/logging"
)

// Version is reported by the root endpoint.
const Version = "1.0.0"

const healthPingTimeout = 2 * time.Second

// HealthStatus is the /health body. It is not wrapped in the API envelope
// so load balancers can read it directly.
type HealthStatus struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	Database      string  `json:"database"`
	Breaker       string  `json:"breaker"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Health handles GET /health. A failed store ping reports "degraded" with 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	status := HealthStatus{
		Status:        "healthy",
		Service:       "sentinelguard-api",
		Database:      "badger",
		Breaker:       h.db.BreakerState(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	code := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check: store ping failed")
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, status)
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "SentinelGuard API v" + Version})
}

// StaticFiles serves server.static_dir under /static/. It returns nil when
// the directory is unset or missing.
func (h *Handler) StaticFiles() http.Handler {
	dir := h.config.Server.StaticDir
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logging.Warn().Str("static_dir", dir).Msg("Static directory not found; /static disabled")
		return nil
	}
	return http.StripPrefix("/static/", http.FileServer(http.Dir(dir)))
}

// respondJSON writes v without the API envelope.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
