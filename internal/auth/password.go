// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// ErrEmptyPassword is returned when hashing an empty password.
var ErrEmptyPassword = errors.New("password is required")

// HashPassword returns a salted bcrypt hash of plain. Each call uses a fresh
// salt, so two hashes of the same password differ but both verify.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches hash. A malformed hash simply
// fails to verify.
func VerifyPassword(plain, hash string) bool {
	if hash == "" {
		return false
	}
	// bcrypt.CompareHashAndPassword is constant-time
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
