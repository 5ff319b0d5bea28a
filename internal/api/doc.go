// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package api serves the SentinelGuard dashboard API over a chi router.

Route groups:

	/api/auth        login (public, 5 per 5 min per IP) and current user
	/api/dashboard   overview, device registry, alerts
	/api/map         map pins, proximity search, overlays, filters
	/api/camera      live feed descriptor, image gallery and review
	/health          store health (503 when degraded)
	/metrics         Prometheus exposition
	/static/*        files from server.static_dir

Every route under /api except login and dashboard/init requires a bearer
token (or the token cookie set by login) and passes the Casbin role check.

Responses under /api use one envelope:

	{"success": true,  "data": ..., "meta": {"request_id": ..., "timestamp": ...}}
	{"success": false, "error": {"code": ..., "message": ..., "request_id": ...}}

Domain errors from the repository and the access gate are translated in
writeDomainError: not found is 404, duplicate key 409, invalid input 400,
bad credentials 401 and store failures 503.
*/
package api
