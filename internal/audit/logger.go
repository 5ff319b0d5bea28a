// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package audit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/metrics"
)

// Config holds configuration for the audit logger.
type Config struct {
	// Enabled controls whether audit logging is active.
	Enabled bool

	// RetentionDays is how long Prune keeps events. 0 keeps them forever.
	RetentionDays int

	// BufferSize is the size of the async write buffer.
	BufferSize int

	// LogToStdout also writes events to the application log.
	LogToStdout bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		RetentionDays: 90,
		BufferSize:    1000,
	}
}

// job is either an event to persist or a flush marker.
type job struct {
	event *Event
	done  chan struct{}
}

// Logger records audit events asynchronously. A nil *Logger discards
// everything, so callers need not check whether auditing is configured.
type Logger struct {
	config   *Config
	store    Store
	jobs     chan job
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewLogger creates a logger writing to store and starts its writer.
func NewLogger(store Store, config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	l := &Logger{
		config:  config,
		store:   store,
		jobs:    make(chan job, config.BufferSize),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
		now:     func() time.Time { return time.Now().UTC() },
	}
	go l.asyncWriter()
	return l
}

// asyncWriter persists queued events until Close, then drains the buffer.
func (l *Logger) asyncWriter() {
	defer close(l.stopped)

	for {
		select {
		case <-l.stop:
			for {
				select {
				case j := <-l.jobs:
					l.handle(j)
				default:
					return
				}
			}
		case j := <-l.jobs:
			l.handle(j)
		}
	}
}

func (l *Logger) handle(j job) {
	if j.done != nil {
		close(j.done)
		return
	}
	l.writeEvent(j.event)
}

// writeEvent persists an event to the store.
func (l *Logger) writeEvent(event *Event) {
	if l.config.LogToStdout {
		if data, err := json.Marshal(event); err == nil {
			logging.Info().RawJSON("event", data).Msg("Audit event")
		}
	}

	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.store.Save(ctx, event); err != nil {
		metrics.AuditEvents.WithLabelValues(string(event.Type), "error").Inc()
		logging.Error().Err(err).Str("event_type", string(event.Type)).Msg("Failed to save audit event")
		return
	}
	metrics.AuditEvents.WithLabelValues(string(event.Type), "saved").Inc()
}

// Log queues an event. It never blocks: when the buffer is full the event
// is dropped with a warning.
func (l *Logger) Log(event *Event) {
	if l == nil || !l.config.Enabled {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now()
	}

	select {
	case <-l.stop:
		return
	default:
	}

	select {
	case l.jobs <- job{event: event}:
	default:
		metrics.AuditEvents.WithLabelValues(string(event.Type), "dropped").Inc()
		logging.Warn().Str("event_id", event.ID).Msg("Audit event buffer full, dropping event")
	}
}

// Flush waits until every event queued before the call has been written.
func (l *Logger) Flush(ctx context.Context) error {
	if l == nil {
		return nil
	}
	done := make(chan struct{})
	select {
	case l.jobs <- job{done: done}:
	case <-l.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the buffer and stops the writer. Calls after the first are
// no-ops.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.stopped
	return nil
}

// Query retrieves events matching the filter, newest first.
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	if l == nil || l.store == nil {
		return []Event{}, nil
	}
	return l.store.Query(ctx, filter)
}

// Prune deletes events older than the retention period.
func (l *Logger) Prune(ctx context.Context) (int64, error) {
	if l == nil || l.store == nil || l.config.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := l.now().AddDate(0, 0, -l.config.RetentionDays)
	return l.store.Delete(ctx, cutoff)
}

// Enabled returns whether audit logging is enabled.
func (l *Logger) Enabled() bool {
	return l != nil && l.config.Enabled
}

// LogAuthSuccess logs a successful login.
func (l *Logger) LogAuthSuccess(ctx context.Context, actor Actor, source Source) {
	l.Log(&Event{
		Type:        EventTypeAuthSuccess,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Action:      "login",
		Description: "User logged in",
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogAuthFailure logs a rejected login attempt.
func (l *Logger) LogAuthFailure(ctx context.Context, username string, source Source, reason string) {
	l.Log(&Event{
		Type:        EventTypeAuthFailure,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		Actor:       Actor{Name: username, Type: "user"},
		Source:      source,
		Action:      "login",
		Description: "Login failed: " + reason,
		Metadata:    mustJSON(map[string]string{"reason": reason}),
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogAuthzDenied logs a policy denial.
func (l *Logger) LogAuthzDenied(ctx context.Context, actor Actor, source Source, resource, action string) {
	l.Log(&Event{
		Type:        EventTypeAuthzDenied,
		Severity:    SeverityWarning,
		Outcome:     OutcomeFailure,
		Actor:       actor,
		Source:      source,
		Action:      action,
		Target:      &Target{ID: resource, Type: "resource"},
		Description: "Authorization denied for " + action + " on " + resource,
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// LogChange logs a successful directory mutation.
func (l *Logger) LogChange(ctx context.Context, eventType EventType, actor Actor, source Source, target Target, description string, metadata map[string]interface{}) {
	event := &Event{
		Type:        eventType,
		Severity:    SeverityInfo,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Action:      "update",
		Target:      &target,
		Description: description,
		RequestID:   logging.RequestIDFromContext(ctx),
	}
	if metadata != nil {
		event.Metadata = mustJSON(metadata)
	}
	l.Log(event)
}

// LogSeed logs a demo data seeding run.
func (l *Logger) LogSeed(ctx context.Context, actor Actor, source Source, inserted interface{}) {
	l.Log(&Event{
		Type:        EventTypeDataSeeded,
		Severity:    SeverityWarning,
		Outcome:     OutcomeSuccess,
		Actor:       actor,
		Source:      source,
		Action:      "seed",
		Description: "Mock data seeded",
		Metadata:    mustJSON(inserted),
		RequestID:   logging.RequestIDFromContext(ctx),
	})
}

// mustJSON converts a value to JSON, returning an empty object on error.
func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// SourceFromRequest creates a Source from an HTTP request. RemoteAddr has
// already been rewritten by the real-IP middleware when proxies are trusted.
func SourceFromRequest(r *http.Request) Source {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return Source{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// UserActor creates an Actor for an authenticated dashboard user.
func UserActor(username, role string) Actor {
	return Actor{Name: username, Type: "user", Role: role}
}
