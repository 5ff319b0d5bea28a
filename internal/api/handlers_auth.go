// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/models"
)

// Login handles POST /api/auth/login.
//
// The body is {username, password, role}. On success the token is returned
// in the body and also set as an HttpOnly cookie for the dashboard.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ip := h.clientIP(r)
	result, err := h.gate.Login(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		reason := ""
		switch {
		case errors.Is(err, auth.ErrRoleMismatch):
			reason = "role mismatch"
		case errors.Is(err, auth.ErrInvalidCredentials):
			reason = "invalid credentials"
		}
		if reason != "" {
			h.security.LogLoginFailure(req.Username, ip, r.UserAgent(), reason)
			h.audit.LogAuthFailure(r.Context(), req.Username, h.auditSource(r), reason)
		}
		writeDomainError(w, r, err, "User")
		return
	}

	h.security.LogLoginSuccess(result.User.Username, string(result.User.Role), ip, r.UserAgent())
	h.audit.LogAuthSuccess(r.Context(), audit.UserActor(result.User.Username, string(result.User.Role)), h.auditSource(r))

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    result.AccessToken,
		Path:     "/",
		MaxAge:   int(h.jwt.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	NewResponseWriter(w, r).Success(result)
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(currentUser(r))
}
