// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package present shapes directory records into the payloads the dashboard
renders: map pins, gallery items, status counts and the overview panel.

Every function here is pure apart from the randomness callers pass in, so
handlers can be tested by feeding fixed devices, clocks and seeds.

Coordinate order: models.GeoPoint stores [longitude, latitude] as GeoJSON
does, while map pins carry [latitude, longitude] for the map widget.
*/
package present
