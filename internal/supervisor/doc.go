// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package supervisor runs SentinelGuard's long-lived goroutines under a
suture supervisor tree.

Tree layout:

	sentinelguard (root)
	├── data-layer
	│   └── badger-gc        value log garbage collection
	└── api-layer
	    └── http-server      chi router behind net/http

A crash in one layer restarts only that layer's services, with suture's
failure threshold and backoff. Supervisor events are logged through
sutureslog, which writes to the zerolog logger via logging.NewSlogHandler.

Shutdown: cancelling the context passed to Serve stops the api layer and
the data layer; each service gets ShutdownTimeout to return. The directory
store itself is closed by the caller after Serve returns, so no service
ever sees a closed store.
*/
package supervisor
