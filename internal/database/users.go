// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/metrics"
	"github.com/tomtom215/sentinelguard/internal/models"
)

// userDoc is the stored form of a user. models.User hides the password hash
// from JSON, so the store uses its own encoding.
type userDoc struct {
	Username     string      `json:"username"`
	PasswordHash string      `json:"password_hash"`
	Role         models.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
	LastLogin    *time.Time  `json:"last_login,omitempty"`
}

func newUserDoc(u *models.User) *userDoc {
	return &userDoc{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		LastLogin:    u.LastLogin,
	}
}

func (d *userDoc) user() *models.User {
	return &models.User{
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		LastLogin:    d.LastLogin,
	}
}

// GetUser returns the user with username, or ErrNotFound.
func (db *DB) GetUser(ctx context.Context, username string) (*models.User, error) {
	return guard(ctx, db, "get", collUsers, func() (*models.User, error) {
		var doc userDoc
		err := db.store.View(func(txn *badger.Txn) error {
			return getDoc(txn, userKey(username), &doc)
		})
		if err != nil {
			return nil, err
		}
		return doc.user(), nil
	})
}

// FindUser is GetUser for the access gate: an unknown username yields
// nil, nil.
func (db *DB) FindUser(ctx context.Context, username string) (*models.User, error) {
	u, err := db.GetUser(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// CreateUser hashes plainPassword and stores a new user.
func (db *DB) CreateUser(ctx context.Context, username, plainPassword string, role models.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidInput("username is required")
	}
	if !role.Valid() {
		return nil, invalidInput("unknown role %q", role)
	}
	hash, err := auth.HashPassword(plainPassword)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    db.now(),
	}

	_, err = guard(ctx, db, "create", collUsers, func() (struct{}, error) {
		return struct{}{}, db.insert(func(txn *badger.Txn) error {
			return insertDoc(txn, userKey(username), newUserDoc(user))
		})
	})
	if err != nil {
		return nil, err
	}
	db.refreshCount(collUsers, prefixUser)
	return user, nil
}

// UpdateLastLogin records a successful login.
func (db *DB) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	_, err := guard(ctx, db, "update", collUsers, func() (struct{}, error) {
		return struct{}{}, db.update(ctx, func(txn *badger.Txn) error {
			var doc userDoc
			if err := getDoc(txn, userKey(username), &doc); err != nil {
				return err
			}
			at := at.UTC()
			doc.LastLogin = &at
			return putDoc(txn, userKey(username), &doc)
		})
	})
	return err
}

// ListUsers returns every user ordered by username.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	return guard(ctx, db, "list", collUsers, func() ([]models.User, error) {
		users := []models.User{}
		err := db.store.View(func(txn *badger.Txn) error {
			return scanPrefix(txn, prefixUser, func(d *userDoc) error {
				users = append(users, *d.user())
				return nil
			})
		})
		return users, err
	})
}

// refreshCount updates the record gauge for a collection. Failures only
// affect the gauge.
func (db *DB) refreshCount(collection, prefix string) {
	if db.closed.Load() {
		return
	}
	_ = db.store.View(func(txn *badger.Txn) error {
		metrics.SetRecordCount(collection, countPrefix(txn, prefix))
		return nil
	})
}
