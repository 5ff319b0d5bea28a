// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "***"},
		{"eyJhbGciOiJIUzI1NiJ9.payload.sig", "eyJh....sig"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.in); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"op", "***"},
		{"operator", "op***"},
	}
	for _, tt := range tests {
		if got := SanitizeUsername(tt.in); got != tt.want {
			t.Errorf("SanitizeUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError("invalid bearer token"); got != "authentication error" {
		t.Errorf("SanitizeError() = %q, want generic message", got)
	}
	if got := SanitizeError("role mismatch"); got != "role mismatch" {
		t.Errorf("SanitizeError() = %q, want passthrough", got)
	}
	long := strings.Repeat("x", 300)
	if got := SanitizeError(long); len(got) != 203 {
		t.Errorf("len(SanitizeError(long)) = %d, want 203", len(got))
	}
}

func TestSecurityLogger_LoginEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sl := NewSecurityLoggerWithLogger(NewTestLogger(&buf))

	sl.LogLoginSuccess("operator", "Operator", "10.0.0.1", "curl/8")
	sl.LogLoginFailure("operator", "10.0.0.1", "curl/8", "Invalid role for this user")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"event":"login_success"`) || !strings.Contains(lines[0], `"username":"op***"`) {
		t.Errorf("unexpected success line: %s", lines[0])
	}
	if strings.Contains(lines[0], "operator") {
		t.Errorf("username leaked unmasked: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"warn"`) || !strings.Contains(lines[1], `"reason":"Invalid role for this user"`) {
		t.Errorf("unexpected failure line: %s", lines[1])
	}
}
