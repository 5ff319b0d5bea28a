// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// SecurityEvent is an authentication or authorization audit record.
type SecurityEvent struct {
	Event     string // login_success, login_failed, token_rejected, access_denied
	Username  string
	Role      string
	IPAddress string
	UserAgent string
	Success   bool
	Reason    string
}

// SecurityLogger writes audit events with usernames and tokens masked.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates an audit logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger is used by tests to capture audit output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogEvent writes one audit event. Failures are logged at warn level.
func (l *SecurityLogger) LogEvent(event *SecurityEvent) {
	e := l.logger.Info()
	status := "success"
	if !event.Success {
		e = l.logger.Warn()
		status = "failed"
	}
	e = e.Str("event", event.Event).Str("status", status)

	if event.Username != "" {
		e = e.Str("username", SanitizeUsername(event.Username))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Reason != "" && !event.Success {
		e = e.Str("reason", SanitizeError(event.Reason))
	}
	e.Msg("security event")
}

// LogLoginSuccess records a successful operator login.
func (l *SecurityLogger) LogLoginSuccess(username, role, ip, userAgent string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_success",
		Username:  username,
		Role:      role,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   true,
	})
}

// LogLoginFailure records a rejected login.
func (l *SecurityLogger) LogLoginFailure(username, ip, userAgent, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "login_failed",
		Username:  username,
		IPAddress: ip,
		UserAgent: userAgent,
		Reason:    reason,
	})
}

// LogTokenRejected records a bearer token that failed validation.
func (l *SecurityLogger) LogTokenRejected(ip, reason string) {
	l.LogEvent(&SecurityEvent{
		Event:     "token_rejected",
		IPAddress: ip,
		Reason:    reason,
	})
}

// LogAccessDenied records a role that was refused a resource.
func (l *SecurityLogger) LogAccessDenied(username, role, ip, resource string) {
	l.LogEvent(&SecurityEvent{
		Event:     "access_denied",
		Username:  username,
		Role:      role,
		IPAddress: ip,
		Reason:    resource,
	})
}

// SanitizeToken keeps the first and last four characters.
// "eyJhbGciOiJIUzI1NiJ9.abc" -> "eyJh....abc"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUsername keeps the first two characters.
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}
	if len(username) <= 2 {
		return "***"
	}
	return username[:2] + "***"
}

var sensitivePatterns = []string{
	"password",
	"secret",
	"token",
	"bearer",
	"authorization",
	"cookie",
}

// SanitizeError replaces messages that mention credentials with a generic one
// and truncates the rest.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lower, pattern) {
			return "authentication error"
		}
	}
	return truncateString(msg, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
