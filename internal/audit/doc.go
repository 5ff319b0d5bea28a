// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

// Package audit records the security audit trail: logins, policy denials
// and every change operators make to the directory.
//
// # Architecture
//
//	Logger.Log() -> buffer (chan) -> async writer -> Store
//
// Log never blocks the request path. Flush waits for everything queued so
// far, which lets a reader see its own writes. The production Store is the
// BadgerDB-backed database.AuditStore; MemoryStore serves tests.
//
// # Usage
//
//	logger := audit.NewLogger(db.AuditStore(), audit.DefaultConfig())
//	defer logger.Close()
//
//	logger.LogAuthFailure(ctx, "alice", audit.SourceFromRequest(r), "invalid credentials")
//
// # Retention
//
// Prune removes events older than Config.RetentionDays. The server runs it
// periodically from a supervised service.
package audit
