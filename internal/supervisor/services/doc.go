// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package services provides suture.Service wrappers for SentinelGuard components.

Each wrapper implements suture's context-aware Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server and converts ListenAndServe to Serve
  - Drains connections with a configurable shutdown timeout

Value Log GC (GCService):
  - Runs Badger value log garbage collection on a fixed interval
  - A failed pass is logged and retried on the next tick; only a panic or
    context cancellation ends Serve

Audit Retention (AuditRetentionService):
  - Prunes audit events past their retention at start and then on a fixed
    interval

Returning an error from Serve tells the supervisor to restart the service
after its backoff. Returning ctx.Err() after cancellation is a clean stop.
*/
package services
