// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package auth

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/models"
)

type contextKey string

// UserContextKey holds the authenticated *models.User.
const UserContextKey contextKey = "user"

// Client-facing failure messages.
const (
	MsgInvalidCredentials = "Invalid authentication credentials"
	MsgUserNotFound       = "User not found"
	MsgLoginFailed        = "Incorrect username or password"
	MsgRoleMismatch       = "Invalid role for this user"
)

// TokenCookieName is the cookie consulted when no Authorization header is sent.
const TokenCookieName = "token"

// ErrorWriter writes an error envelope. The api package supplies its own so
// middleware failures match handler failures.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// MiddlewareConfig configures NewMiddleware.
type MiddlewareConfig struct {
	RateLimitReqs     int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	TrustedProxies    []string
	ErrorWriter       ErrorWriter
}

// Middleware provides authentication and rate limiting middleware
type Middleware struct {
	gate              *Gate
	rateLimiter       *RateLimiter
	rateLimitDisabled bool
	trustedProxies    map[string]bool
	writeError        ErrorWriter
	security          *logging.SecurityLogger
}

// NewMiddleware creates a new authentication middleware. Call Stop to end
// the rate limiter cleanup goroutine.
func NewMiddleware(gate *Gate, cfg MiddlewareConfig) *Middleware {
	trustedMap := make(map[string]bool)
	for _, proxy := range cfg.TrustedProxies {
		trustedMap[proxy] = true
	}

	writeError := cfg.ErrorWriter
	if writeError == nil {
		writeError = writeJSONError
	}

	m := &Middleware{
		gate:              gate,
		rateLimiter:       NewRateLimiter(cfg.RateLimitReqs, cfg.RateLimitWindow),
		rateLimitDisabled: cfg.RateLimitDisabled,
		trustedProxies:    trustedMap,
		writeError:        writeError,
		security:          logging.NewSecurityLogger(),
	}

	if !cfg.RateLimitDisabled {
		go m.rateLimiter.startCleanup(5 * time.Minute)
	}

	return m
}

// Stop releases background resources.
func (m *Middleware) Stop() {
	m.rateLimiter.Stop()
}

// Authenticate resolves the bearer token to a user and stores it in the
// request context. Failures get a 401 envelope.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)

		user, err := m.gate.Authenticate(r.Context(), token)
		if err != nil {
			m.handleAuthError(w, r, err)
			return
		}

		ctx := ContextWithUser(r.Context(), user)
		next(w, r.WithContext(ctx))
	}
}

func (m *Middleware) handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	ip := m.getClientIP(r)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		m.security.LogTokenRejected(ip, err.Error())
		m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", MsgInvalidCredentials)
	case errors.Is(err, ErrUserNotFound):
		m.security.LogTokenRejected(ip, "user not found")
		m.writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", MsgUserNotFound)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token subject lookup failed")
		m.writeError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Directory temporarily unavailable")
	}
}

// extractToken reads "Authorization: Bearer <token>", falling back to the
// token cookie. It returns "" when neither is usable.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil {
			return ""
		}
		return cookie.Value
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ContextWithUser returns ctx carrying user.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}

// RateLimit is middleware that enforces per-IP rate limiting
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.rateLimitDisabled {
			next(w, r)
			return
		}

		if !m.rateLimiter.Allow(m.getClientIP(r)) {
			RateLimitedRequests.Inc()
			m.writeError(w, r, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests")
			return
		}
		next(w, r)
	}
}

// ClientIP returns the client address, honouring forwarding headers only
// from trusted proxies.
func (m *Middleware) ClientIP(r *http.Request) string {
	return m.getClientIP(r)
}

func (m *Middleware) getClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if len(m.trustedProxies) == 0 || !m.trustedProxies[remoteIP] {
		return remoteIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		clientIP := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(clientIP) != nil {
			return clientIP
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}

	return remoteIP
}

// writeJSONError is the fallback ErrorWriter.
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

// RateLimiter implements per-IP rate limiting with automatic cleanup
type RateLimiter struct {
	limiters  map[string]*rateLimiterEntry
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	stopOnce  sync.Once
	stopClean chan struct{}
}

// rateLimiterEntry wraps a rate limiter with last access time
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter allows reqsPerWindow requests in a burst, refilled evenly
// across window.
func NewRateLimiter(reqsPerWindow int, window time.Duration) *RateLimiter {
	if reqsPerWindow < 1 {
		reqsPerWindow = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limiters:  make(map[string]*rateLimiterEntry),
		rate:      rate.Every(window / time.Duration(reqsPerWindow)),
		burst:     reqsPerWindow,
		stopClean: make(chan struct{}),
	}
}

// Allow checks if a request from the given IP is allowed
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastAccess = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// startCleanup periodically removes stale rate limiters
func (rl *RateLimiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now().Add(-time.Hour))
		case <-rl.stopClean:
			return
		}
	}
}

// cleanup removes limiters not used since threshold.
func (rl *RateLimiter) cleanup(threshold time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, entry := range rl.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(rl.limiters, ip)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopClean) })
}
