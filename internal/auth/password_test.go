// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if h1 == h2 {
		t.Error("HashPassword() returned identical hashes for two calls")
	}
	if !strings.HasPrefix(h1, "$2a$12$") {
		t.Errorf("HashPassword() = %q, want bcrypt cost 12 prefix", h1)
	}
	if !VerifyPassword("password", h1) || !VerifyPassword("password", h2) {
		t.Error("VerifyPassword() = false for both salted hashes, want true")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("HashPassword(\"\") error = %v, want ErrEmptyPassword", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name  string
		plain string
		hash  string
		want  bool
	}{
		{"match", "correct horse", hash, true},
		{"mismatch", "battery staple", hash, false},
		{"empty plain", "", hash, false},
		{"empty hash", "correct horse", "", false},
		{"malformed hash", "correct horse", "not-a-bcrypt-hash", false},
		{"truncated hash", "correct horse", hash[:20], false},
	}

	for _, tt := range tests {
		if got := VerifyPassword(tt.plain, tt.hash); got != tt.want {
			t.Errorf("%s: VerifyPassword() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
