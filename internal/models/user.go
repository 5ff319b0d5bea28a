// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package models

import "time"

// Role is a user's dashboard role. Role names are case-sensitive and must
// match exactly at login.
type Role string

// Role constants align with the Casbin policy in internal/authz/policy.csv.
const (
	// RoleOperator reads and writes all dashboard resources.
	RoleOperator Role = "Operator"

	// RoleSupervisor inherits Operator.
	RoleSupervisor Role = "Supervisor"

	// RoleViewer is read-only.
	RoleViewer Role = "Viewer"
)

// ValidRoles lists every accepted role.
var ValidRoles = []Role{RoleOperator, RoleSupervisor, RoleViewer}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOperator, RoleSupervisor, RoleViewer:
		return true
	}
	return false
}

// User is an operator account.
type User struct {
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash. It is never serialized to clients.
	PasswordHash string `json:"-"`

	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
	Role     Role   `json:"role" validate:"required,user_role"`
}
