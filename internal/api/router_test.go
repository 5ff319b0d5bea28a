// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/middleware"
	"github.com/tomtom215/sentinelguard/internal/models"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "healthy" || status.Database != "badger" || status.Breaker != "closed" {
		t.Errorf("Health() = %+v, want healthy/badger/closed", status)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}

	if err := env.db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	rec = env.do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status after close = %d, want 503", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
}

func TestRoot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "SentinelGuard API v"+Version {
		t.Errorf("message = %q", body["message"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login("viewer1", models.RoleViewer)
	env.do(http.MethodGet, "/api/dashboard/devices", "", token)

	rec := env.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("metrics output missing api_requests_total")
	}
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>dashboard</h1>"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	env := newTestEnv(t, func(c *config.Config) { c.Server.StaticDir = dir })
	rec := env.do(http.MethodGet, "/static/index.html", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "dashboard") {
		t.Errorf("body = %q", rec.Body.String())
	}

	missing := newTestEnv(t, func(c *config.Config) { c.Server.StaticDir = filepath.Join(dir, "nope") })
	if h := missing.handler.StaticFiles(); h != nil {
		t.Error("StaticFiles() for missing dir != nil")
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	wantError(t, env.do(http.MethodGet, "/api/nope", "", ""), http.StatusNotFound, ErrCodeNotFound, "Resource not found")
	wantError(t, env.do(http.MethodDelete, "/", "", ""), http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "")
}

func TestRouter_RequestIDAndSecurityHeaders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-abc")
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if got := rec.Header().Get(middleware.RequestIDHeader); got != "trace-abc" {
		t.Errorf("X-Request-ID = %q, want trace-abc", got)
	}
	resp := decodeEnvelope(t, rec, http.StatusUnauthorized, nil)
	if resp.Error == nil || resp.Error.RequestID != "trace-abc" {
		t.Errorf("error.request_id = %+v, want trace-abc", resp.Error)
	}

	headers := map[string]string{
		"X-Frame-Options":           "DENY",
		"Cache-Control":             "no-store",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	}
	for k, want := range headers {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	tests := []struct {
		name      string
		origin    string
		wantAllow string
	}{
		{"allowed origin", "http://localhost:5173", "http://localhost:5173"},
		{"unknown origin", "https://evil.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/dashboard/devices", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestRouter_LoginRateLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, func(c *config.Config) { c.Security.RateLimitDisabled = false })

	// invalid bodies fail validation fast but still count against the limiter
	for i := 0; i < RateLimitLogin.Requests; i++ {
		rec := env.do(http.MethodPost, "/api/auth/login", `{}`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d: status = %d, want 400", i+1, rec.Code)
		}
	}
	rec := env.do(http.MethodPost, "/api/auth/login", `{}`, "")
	wantError(t, rec, http.StatusTooManyRequests, ErrCodeTooManyRequests, "")

	// other API routes keep their own budget
	if rec := env.do(http.MethodGet, "/api/auth/me", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("/api/auth/me status = %d, want 401", rec.Code)
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for i := 0; i < RateLimitLogin.Requests+3; i++ {
		if rec := env.do(http.MethodPost, "/api/auth/login", `{}`, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d: status = %d, want 400", i+1, rec.Code)
		}
	}
}

func TestRouter_CompressionOnAPI(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login("viewer1", models.RoleViewer)

	req := httptest.NewRequest(http.MethodGet, "/api/map/overlays", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Errorf("Content-Encoding = %q, want gzip", got)
	}
}
