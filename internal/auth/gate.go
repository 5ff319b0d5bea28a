// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/sentinelguard/internal/models"
)

// Gate errors. Handlers map all three to 401.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleMismatch       = errors.New("invalid role for this user")
)

// UserStore is the slice of the directory the gate needs.
// FindUser returns nil, nil when the username is unknown.
type UserStore interface {
	FindUser(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Gate resolves credentials to directory users.
type Gate struct {
	users UserStore
	jwt   *JWTManager
	now   func() time.Time
}

// NewGate creates a gate over the given user store and token manager.
func NewGate(users UserStore, jwtManager *JWTManager) *Gate {
	return &Gate{users: users, jwt: jwtManager, now: time.Now}
}

// Authenticate validates a bearer token and loads its subject from the
// directory. Store failures are returned unwrapped from the gate errors so
// callers can report them as unavailability rather than 401.
func (g *Gate) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := g.jwt.ValidateToken(token)
	if err != nil {
		RecordTokenValidation(false)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	RecordTokenValidation(true)

	user, err := g.users.FindUser(ctx, claims.Username())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Login checks the password and role, issues a token and records the login
// time. An unknown user and a wrong password fail identically.
func (g *Gate) Login(ctx context.Context, username, password string, role models.Role) (*LoginResult, error) {
	user, err := g.users.FindUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user == nil {
		// burn a comparable amount of time so unknown users are not distinguishable
		VerifyPassword(password, dummyHash)
		RecordLogin(LoginOutcomeInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		RecordLogin(LoginOutcomeInvalidCredentials)
		return nil, ErrInvalidCredentials
	}
	if user.Role != role {
		RecordLogin(LoginOutcomeRoleMismatch)
		return nil, ErrRoleMismatch
	}

	token, err := g.jwt.GenerateToken(user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	at := g.now().UTC()
	if err := g.users.UpdateLastLogin(ctx, user.Username, at); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &at

	RecordLogin(LoginOutcomeSuccess)
	return &LoginResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// dummyHash is a valid cost-12 bcrypt hash of a random string.
const dummyHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO5Rl4D9u3e8pJ5CzRrpPZsh0/3b7Gk9K"
