// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/sentinelguard/internal/metrics"
	"github.com/tomtom215/sentinelguard/internal/models"
)

// FindDevicesNear returns devices within radiusMeters of (lng, lat),
// nearest first with ties broken by device_id. A radius that is not
// positive uses the configured default.
func (db *DB) FindDevicesNear(ctx context.Context, lng, lat, radiusMeters float64) ([]models.NearbyDevice, error) {
	if !validCoordinate(lat, 90) || !validCoordinate(lng, 180) {
		return nil, invalidInput("coordinates (%v, %v) out of range", lng, lat)
	}
	if radiusMeters <= 0 {
		radiusMeters = db.DefaultRadius()
	}

	start := time.Now()
	hits := db.spatial.QueryNearby(lat, lng, radiusMeters)

	devices, err := guard(ctx, db, "nearby", collDevices, func() ([]models.NearbyDevice, error) {
		out := make([]models.NearbyDevice, 0, len(hits))
		err := db.store.View(func(txn *badger.Txn) error {
			for _, hit := range hits {
				var d models.Device
				err := getDoc(txn, deviceKey(hit.ID), &d)
				if errors.Is(err, ErrNotFound) {
					// stale index entry
					continue
				}
				if err != nil {
					return err
				}
				out = append(out, models.NearbyDevice{Device: d, DistanceMeters: hit.DistanceMeters})
			}
			return nil
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSpatialQuery(time.Since(start), len(devices))
	return devices, nil
}
