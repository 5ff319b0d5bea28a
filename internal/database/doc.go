// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package database is the SentinelGuard directory: users, devices, alerts and
camera images stored as JSON documents in BadgerDB.

# Storage Layout

	user:<username>                        -> models.User
	device:<device_id>                     -> models.Device
	alert:<alert_id>                       -> models.Alert
	alertidx:<inverted unix nanos>:<id>    -> alert key (newest-first iteration)
	image:<image_id>                       -> models.ImageRecord

Every write happens in a single Badger read-write transaction, so a record
and its secondary keys change together. Uniqueness checks read the key and
write it in the same transaction; a concurrent conflicting insert aborts
with badger.ErrConflict, reported as ErrDuplicateKey. Updates are
read-modify-write transactions that are re-run on ErrConflict, so
concurrent updates of one record resolve last-write-wins.

# Geospatial Queries

Device positions are mirrored in a cache.SpatialHashGrid that is rebuilt
when the store is opened and updated on every device insert. FindDevicesNear
returns devices within a radius ordered nearest-first by great-circle
distance.

# Errors

Domain failures are reported with ErrNotFound, ErrDuplicateKey and
ErrInvalidInput. Any other Badger failure is wrapped with
ErrStoreUnavailable. Calls run through a circuit breaker that opens after
consecutive store failures and fails fast while open.

# Usage

	db, err := database.New(&cfg.Database)
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to open directory store")
	}
	defer db.Close()

	devices, err := db.FindDevicesNear(ctx, -0.09, 51.505, 1000)
*/
package database
