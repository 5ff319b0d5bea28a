// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package audit

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// EventType categorizes audit events.
type EventType string

const (
	// Authentication events
	EventTypeAuthSuccess EventType = "auth.success"
	EventTypeAuthFailure EventType = "auth.failure"

	// Authorization events
	EventTypeAuthzDenied EventType = "authz.denied"

	// Directory changes
	EventTypeDeviceCreated     EventType = "device.created"
	EventTypeDeviceUpdated     EventType = "device.updated"
	EventTypeAlertCreated      EventType = "alert.created"
	EventTypeAlertAcknowledged EventType = "alert.acknowledged"
	EventTypeImageTagged       EventType = "image.tagged"
	EventTypeImageNotes        EventType = "image.notes"

	// Administrative events
	EventTypeUserCreated EventType = "user.created"
	EventTypeDataSeeded  EventType = "data.seeded"
)

// Severity indicates the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one entry of the audit trail.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Severity  Severity  `json:"severity"`
	Outcome   Outcome   `json:"outcome"`

	// Actor who performed the action.
	Actor Actor `json:"actor"`

	// Target of the action (optional).
	Target *Target `json:"target,omitempty"`

	// Source of the request.
	Source Source `json:"source"`

	Action      string          `json:"action"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`

	// RequestID from the originating HTTP request.
	RequestID string `json:"request_id,omitempty"`
}

// Actor represents who performed an action.
type Actor struct {
	// Name is the username, or a component name for system actors.
	Name string `json:"name"`

	// Type of actor (user, system).
	Type string `json:"type"`

	// Role is the dashboard role the user acted under.
	Role string `json:"role,omitempty"`
}

// Target represents the object of an action.
type Target struct {
	ID   string `json:"id"`
	Type string `json:"type"` // device, alert, image, user
}

// Source represents where a request originated.
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Store persists audit events.
type Store interface {
	// Save persists an audit event.
	Save(ctx context.Context, event *Event) error

	// Query returns events matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Delete removes events older than the cutoff and returns how many.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter defines filtering options for audit queries. Zero fields
// match everything.
type QueryFilter struct {
	Types     []EventType `json:"types,omitempty"`
	Outcome   Outcome     `json:"outcome,omitempty"`
	ActorName string      `json:"actor_name,omitempty"`
	TargetID  string      `json:"target_id,omitempty"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	EndTime   *time.Time  `json:"end_time,omitempty"`

	// Limit is the maximum number of results; <= 0 means DefaultQueryLimit.
	Limit int `json:"limit,omitempty"`
}

// DefaultQueryLimit caps queries that do not set a limit.
const DefaultQueryLimit = 100

// EffectiveLimit returns the limit a store should apply.
func (f *QueryFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultQueryLimit
	}
	return f.Limit
}

// Matches reports whether event passes every set criterion.
func (f *QueryFilter) Matches(event *Event) bool {
	if len(f.Types) > 0 && !containsType(f.Types, event.Type) {
		return false
	}
	if f.Outcome != "" && event.Outcome != f.Outcome {
		return false
	}
	if f.ActorName != "" && event.Actor.Name != f.ActorName {
		return false
	}
	if f.TargetID != "" && (event.Target == nil || event.Target.ID != f.TargetID) {
		return false
	}
	if f.StartTime != nil && event.Timestamp.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && event.Timestamp.After(*f.EndTime) {
		return false
	}
	return true
}

func containsType(types []EventType, t EventType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
