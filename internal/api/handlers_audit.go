// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/sentinelguard/internal/audit"
)

// defaultAuditLimit applies when ?limit= is omitted.
const defaultAuditLimit = 100

// AuditEvents handles GET /api/audit/events, newest first. Supervisor only.
//
// Query parameters: type (comma separated), actor, target, outcome,
// from and to (RFC3339), limit (1-500).
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	limit, ok := getIntParam(r, "limit", defaultAuditLimit)
	if !ok {
		NewResponseWriter(w, r).BadRequest("limit must be an integer")
		return
	}
	q := r.URL.Query()
	req := AuditEventsRequest{
		Type:    q.Get("type"),
		Actor:   q.Get("actor"),
		Target:  q.Get("target"),
		Outcome: q.Get("outcome"),
		From:    q.Get("from"),
		To:      q.Get("to"),
		Limit:   limit,
	}
	if !validateRequest(w, r, &req) {
		return
	}

	filter := audit.QueryFilter{
		Outcome:   audit.Outcome(req.Outcome),
		ActorName: req.Actor,
		TargetID:  req.Target,
		StartTime: parseTimeParam(req.From),
		EndTime:   parseTimeParam(req.To),
		Limit:     req.Limit,
	}
	for _, t := range strings.Split(req.Type, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter.Types = append(filter.Types, audit.EventType(t))
		}
	}

	// events logged by this client's earlier requests should be visible
	if err := h.audit.Flush(r.Context()); err != nil {
		writeDomainError(w, r, err, "Audit event")
		return
	}
	events, err := h.audit.Query(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err, "Audit event")
		return
	}
	NewResponseWriter(w, r).Success(events)
}

// auditChange records a directory mutation by the current user.
func (h *Handler) auditChange(r *http.Request, eventType audit.EventType, target audit.Target, description string, metadata map[string]interface{}) {
	user := currentUser(r)
	h.audit.LogChange(r.Context(), eventType, audit.UserActor(user.Username, string(user.Role)),
		h.auditSource(r), target, description, metadata)
}

func (h *Handler) auditSource(r *http.Request) audit.Source {
	return audit.Source{IPAddress: h.clientIP(r), UserAgent: r.UserAgent()}
}
