// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package authz

import (
	"net"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/logging"
)

// MsgForbidden is the client-facing message for a policy denial.
const MsgForbidden = "Insufficient permissions for this operation"

// MiddlewareConfig configures NewMiddleware. All fields are optional.
type MiddlewareConfig struct {
	ErrorWriter auth.ErrorWriter
	ClientIP    func(*http.Request) string

	// Audit receives denials; nil disables.
	Audit *audit.Logger
}

// Middleware provides authorization middleware using Casbin.
type Middleware struct {
	enforcer   *Enforcer
	writeError auth.ErrorWriter
	clientIP   func(*http.Request) string
	security   *logging.SecurityLogger
	audit      *audit.Logger
}

// NewMiddleware creates a new authorization middleware.
func NewMiddleware(enforcer *Enforcer, cfg MiddlewareConfig) *Middleware {
	m := &Middleware{
		enforcer:   enforcer,
		writeError: cfg.ErrorWriter,
		clientIP:   cfg.ClientIP,
		security:   logging.NewSecurityLogger(),
		audit:      cfg.Audit,
	}
	if m.writeError == nil {
		m.writeError = writeJSONError
	}
	if m.clientIP == nil {
		m.clientIP = remoteIP
	}
	return m
}

// Authorize enforces a fixed object and action for the wrapped handler.
func (m *Middleware) Authorize(object, action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.check(w, r, object, action) {
			next(w, r)
		}
	}
}

// AuthorizeRequest derives the action from the HTTP method and authorizes
// against the request path.
func (m *Middleware) AuthorizeRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.check(w, r, r.URL.Path, methodToAction(r.Method)) {
			next(w, r)
		}
	}
}

// check writes the error response itself and reports whether to continue.
func (m *Middleware) check(w http.ResponseWriter, r *http.Request, object, action string) bool {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		m.writeError(w, r, http.StatusForbidden, "FORBIDDEN", "No authentication context")
		return false
	}

	// the user's role is the only subject; usernames never appear in the policy
	allowed, err := m.enforcer.EnforceRole(string(user.Role), object, action)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
		m.writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed")
		return false
	}

	if !allowed {
		m.security.LogAccessDenied(user.Username, string(user.Role), m.clientIP(r), action+" "+object)
		m.audit.LogAuthzDenied(r.Context(), audit.UserActor(user.Username, string(user.Role)),
			audit.Source{IPAddress: m.clientIP(r), UserAgent: r.UserAgent()}, object, action)
		m.writeError(w, r, http.StatusForbidden, "FORBIDDEN", MsgForbidden)
		return false
	}
	return true
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	body := map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":       code,
			"message":    message,
			"request_id": logging.RequestIDFromContext(r.Context()),
		},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
