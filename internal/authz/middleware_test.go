// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/models"
)

func newTestMiddleware(t *testing.T, cfg MiddlewareConfig) *Middleware {
	t.Helper()
	return NewMiddleware(setupEnforcer(t, nil), cfg)
}

func requestAs(method, path string, role models.Role) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if role == "" {
		return req
	}
	user := &models.User{Username: "alice", Role: role}
	return req.WithContext(auth.ContextWithUser(req.Context(), user))
}

func TestMiddleware_AuthorizeRequest(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, MiddlewareConfig{})

	tests := []struct {
		name       string
		method     string
		path       string
		role       models.Role
		wantStatus int
		wantCalled bool
	}{
		{"viewer reads devices", http.MethodGet, "/api/dashboard/devices", models.RoleViewer, http.StatusOK, true},
		{"viewer filters pins", http.MethodPost, "/api/map/filters", models.RoleViewer, http.StatusOK, true},
		{"viewer cannot create device", http.MethodPost, "/api/dashboard/devices", models.RoleViewer, http.StatusForbidden, false},
		{"viewer cannot tag image", http.MethodPut, "/api/camera/images/IMG-1/tag", models.RoleViewer, http.StatusForbidden, false},
		{"operator tags image", http.MethodPut, "/api/camera/images/IMG-1/tag", models.RoleOperator, http.StatusOK, true},
		{"operator updates device", http.MethodPatch, "/api/dashboard/devices/MAG-001-A", models.RoleOperator, http.StatusOK, true},
		{"supervisor acknowledges alert", http.MethodPost, "/api/dashboard/alerts/a1/ack", models.RoleSupervisor, http.StatusOK, true},
		{"unknown role denied", http.MethodGet, "/api/dashboard/devices", models.Role("Intruder"), http.StatusForbidden, false},
		{"no user in context", http.MethodGet, "/api/dashboard/devices", "", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := m.AuthorizeRequest(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			handler(rec, requestAs(tt.method, tt.path, tt.role))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called = %v, want %v", called, tt.wantCalled)
			}
		})
	}
}

func TestMiddleware_Authorize_FixedObject(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, MiddlewareConfig{})

	handler := m.Authorize("/api/dashboard/init", "write", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	handler(rec, requestAs(http.MethodGet, "/anything", models.RoleViewer))
	if rec.Code != http.StatusForbidden {
		t.Errorf("viewer status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, requestAs(http.MethodGet, "/anything", models.RoleSupervisor))
	if rec.Code != http.StatusNoContent {
		t.Errorf("supervisor status = %d, want 204", rec.Code)
	}
}

func TestMiddleware_DefaultErrorEnvelope(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, MiddlewareConfig{})

	rec := httptest.NewRecorder()
	m.AuthorizeRequest(func(http.ResponseWriter, *http.Request) {})(rec,
		requestAs(http.MethodPost, "/api/dashboard/devices", models.RoleViewer))

	body := rec.Body.String()
	if !strings.Contains(body, `"code":"FORBIDDEN"`) {
		t.Errorf("body = %s, want FORBIDDEN code", body)
	}
	if !strings.Contains(body, MsgForbidden) {
		t.Errorf("body = %s, want message %q", body, MsgForbidden)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestMiddleware_CustomErrorWriter(t *testing.T) {
	t.Parallel()

	var gotStatus int
	var gotCode string
	m := newTestMiddleware(t, MiddlewareConfig{
		ErrorWriter: func(w http.ResponseWriter, r *http.Request, status int, code, message string) {
			gotStatus, gotCode = status, code
			w.WriteHeader(status)
		},
		ClientIP: func(*http.Request) string { return "203.0.113.9" },
	})

	rec := httptest.NewRecorder()
	m.AuthorizeRequest(func(http.ResponseWriter, *http.Request) {})(rec,
		requestAs(http.MethodDelete, "/api/dashboard/devices/X", models.RoleViewer))

	if gotStatus != http.StatusForbidden || gotCode != "FORBIDDEN" {
		t.Errorf("ErrorWriter got (%d, %q), want (403, FORBIDDEN)", gotStatus, gotCode)
	}
}

func TestMiddleware_AuditsDenials(t *testing.T) {
	t.Parallel()
	store := audit.NewMemoryStore(10)
	auditLog := audit.NewLogger(store, audit.DefaultConfig())
	t.Cleanup(func() { _ = auditLog.Close() })

	m := newTestMiddleware(t, MiddlewareConfig{
		Audit:    auditLog,
		ClientIP: func(*http.Request) string { return "203.0.113.9" },
	})
	handler := m.Authorize("/api/audit/events", "audit", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler(httptest.NewRecorder(), requestAs(http.MethodGet, "/api/audit/events", models.RoleOperator))
	handler(httptest.NewRecorder(), requestAs(http.MethodGet, "/api/audit/events", models.RoleSupervisor))
	if err := auditLog.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	events, err := auditLog.Query(context.Background(), audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1 (only the denial)", len(events))
	}
	ev := events[0]
	if ev.Type != audit.EventTypeAuthzDenied || ev.Actor.Role != "Operator" || ev.Source.IPAddress != "203.0.113.9" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Target == nil || ev.Target.ID != "/api/audit/events" || ev.Action != "audit" {
		t.Errorf("target/action = %+v/%s", ev.Target, ev.Action)
	}
}

func TestMethodToAction(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		http.MethodGet:     "read",
		http.MethodHead:    "read",
		http.MethodOptions: "read",
		http.MethodPost:    "write",
		http.MethodPut:     "write",
		http.MethodPatch:   "write",
		http.MethodDelete:  "delete",
		"PROPFIND":         "read",
	}
	for method, want := range tests {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%q) = %q, want %q", method, got, want)
		}
	}
}

func TestRemoteIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := remoteIP(req); got != "192.0.2.1" {
		t.Errorf("remoteIP() = %q, want 192.0.2.1", got)
	}

	req.RemoteAddr = "not-an-addr"
	if got := remoteIP(req); got != "not-an-addr" {
		t.Errorf("remoteIP() = %q, want raw RemoteAddr", got)
	}
}

func TestMiddleware_EmptyContextUser(t *testing.T) {
	t.Parallel()
	m := newTestMiddleware(t, MiddlewareConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/map/devices", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserContextKey, (*models.User)(nil)))

	rec := httptest.NewRecorder()
	m.AuthorizeRequest(func(http.ResponseWriter, *http.Request) {
		t.Error("handler should not run without a user")
	})(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
