// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/authz"
	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/database"
	"github.com/tomtom215/sentinelguard/internal/models"
)

const (
	testJWTSecret = "api-handler-test-secret-with-32-plus-chars"
	testPassword  = "correct-horse-battery"
	testClientIP  = "192.0.2.10:40000"
)

// testEnv is a fully wired router over an in-memory directory.
type testEnv struct {
	t       *testing.T
	db      *database.DB
	cfg     *config.Config
	jwt     *auth.JWTManager
	audit   *audit.Logger
	handler *Handler
	router  http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "staging"},
		Security: config.SecurityConfig{
			JWTSecret:         testJWTSecret,
			SessionTimeout:    30 * time.Minute,
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"http://localhost:5173"},
		},
		Database: config.DatabaseConfig{InMemory: true, DefaultRadiusMeters: 1000},
	}
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// closed before db by cleanup ordering
	auditLog := audit.NewLogger(db.AuditStore(), audit.DefaultConfig())
	t.Cleanup(func() { _ = auditLog.Close() })

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	gate := auth.NewGate(db, jwtManager)

	authMw := auth.NewMiddleware(gate, auth.MiddlewareConfig{
		RateLimitReqs:     cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
		ErrorWriter:       WriteError,
	})
	t.Cleanup(authMw.Stop)

	enforcer, err := authz.NewEnforcer(context.Background(), authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)
	authzMw := authz.NewMiddleware(enforcer, authz.MiddlewareConfig{
		ErrorWriter: WriteError,
		ClientIP:    authMw.ClientIP,
		Audit:       auditLog,
	})

	handler := NewHandler(db, gate, jwtManager, auditLog, cfg)
	handler.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(42, 7)) }

	return &testEnv{
		t:       t,
		db:      db,
		cfg:     cfg,
		jwt:     jwtManager,
		audit:   auditLog,
		handler: handler,
		router:  NewRouter(handler, authMw, authzMw, cfg).SetupChi(),
	}
}

// login creates a directory user and returns a bearer token for it.
func (e *testEnv) login(username string, role models.Role) string {
	e.t.Helper()
	if _, err := e.db.CreateUser(context.Background(), username, testPassword, role); err != nil {
		e.t.Fatalf("CreateUser(%q) error = %v", username, err)
	}
	token, err := e.jwt.GenerateToken(username, string(role))
	if err != nil {
		e.t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

// do sends a request through the router. A non-empty body is sent as JSON.
func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.RemoteAddr = testClientIP
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) mustCreateDevice(id string, lat, lng float64) *models.Device {
	e.t.Helper()
	d, err := e.db.CreateDevice(context.Background(), models.DeviceCreate{
		DeviceID:  id,
		Name:      "Device " + id,
		Type:      models.DeviceTypeSensorNode,
		Latitude:  lat,
		Longitude: lng,
	})
	if err != nil {
		e.t.Fatalf("CreateDevice(%q) error = %v", id, err)
	}
	return d
}

// envelope mirrors APIResponse with the payload left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

// decodeEnvelope checks the status code and decodes data into out (if non-nil).
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, out interface{}) envelope {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, wantStatus, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v; body = %s", err, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("decode data: %v; data = %s", err, env.Data)
		}
	}
	return env
}

// wantError checks an error envelope's status, code and (if set) message.
func wantError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode, wantMessage string) {
	t.Helper()
	env := decodeEnvelope(t, rec, wantStatus, nil)
	if env.Success {
		t.Errorf("success = true, want false")
	}
	if env.Error == nil {
		t.Fatalf("error = nil, want code %s", wantCode)
	}
	if env.Error.Code != wantCode {
		t.Errorf("error.code = %q, want %q", env.Error.Code, wantCode)
	}
	if wantMessage != "" && env.Error.Message != wantMessage {
		t.Errorf("error.message = %q, want %q", env.Error.Message, wantMessage)
	}
}
