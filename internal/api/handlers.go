// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/database"
	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/models"
	"github.com/tomtom215/sentinelguard/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_auth.go: login and current user
//   - handlers_dashboard.go: overview, devices and alerts
//   - handlers_map.go: pins, proximity, overlays and filters
//   - handlers_camera.go: live feed and image review
//   - handlers_health.go: health, root and static files
//   - handlers_audit.go: audit trail
type Handler struct {
	db        *database.DB
	gate      *auth.Gate
	jwt       *auth.JWTManager
	audit     *audit.Logger
	config    *config.Config
	security  *logging.SecurityLogger
	startTime time.Time

	now      func() time.Time
	newRand  func() *rand.Rand
	clientIP func(*http.Request) string
}

// NewHandler creates the API handler set. auditLog may be nil, which
// disables the audit trail.
//
//	handler := api.NewHandler(db, gate, jwtManager, auditLog, cfg)
//	router := api.NewRouter(handler, authMiddleware, authzMiddleware, cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(db *database.DB, gate *auth.Gate, jwtManager *auth.JWTManager, auditLog *audit.Logger, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		gate:      gate,
		jwt:       jwtManager,
		audit:     auditLog,
		config:    cfg,
		security:  logging.NewSecurityLogger(),
		startTime: time.Now(),
		now:       time.Now,
		// a fresh source per request; *rand.Rand is not safe for concurrent use
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		clientIP: remoteHost,
	}
}

// currentUser returns the user stored by auth.Middleware.Authenticate.
// Routes that call it are always mounted behind that middleware.
func currentUser(r *http.Request) *models.User {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return &models.User{}
	}
	return user
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid JSON request body")
	}
	return nil
}

// decodeAndValidate decodes a JSON body and runs struct validation. It
// writes the 400 response itself and reports whether the handler should go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := decodeJSON(w, r, v); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return false
	}
	return validateRequest(w, r, v)
}

// validateRequest writes a VALIDATION_ERROR response when v fails its tags.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		NewResponseWriter(w, r).ValidationError(verr)
		return false
	}
	return true
}

// getIntParam extracts an integer query parameter. ok is false when the
// parameter is present but not an integer.
func getIntParam(r *http.Request, key string, defaultValue int) (value int, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultValue, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// getFloatParam extracts a float query parameter. present is false when the
// parameter is absent; err is set when it is present but malformed.
func getFloatParam(r *http.Request, key string) (value float64, present bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
