// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package models defines the directory records shared by the repository, the
access gate and the HTTP handlers.

Key Components:

  - User: operator account; the password hash never leaves the server
  - Device: sensor node, camera or gateway with a GeoJSON Point location
  - Alert: device-raised event, immutable except for acknowledgment
  - ImageRecord: camera capture awaiting or carrying a review verdict

Coordinate Order:

Locations are stored as GeoJSON, longitude first. Client-facing map pins
reorder them latitude first (see internal/present).

Enumerations:

Device type and status, image status, alert severity and user role are closed
sets. Each enum type has a Valid method used by request validation and by the
repository before any write.
*/
package models
