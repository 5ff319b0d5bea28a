// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"math"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/sentinelguard/internal/metrics"
	"github.com/tomtom215/sentinelguard/internal/models"
)

// ListDevices returns every device, ordered by device_id.
func (db *DB) ListDevices(ctx context.Context) ([]models.Device, error) {
	return guard(ctx, db, "list", collDevices, func() ([]models.Device, error) {
		devices := []models.Device{}
		err := db.store.View(func(txn *badger.Txn) error {
			return scanPrefix(txn, prefixDevice, func(d *models.Device) error {
				devices = append(devices, *d)
				return nil
			})
		})
		return devices, err
	})
}

// GetDevice returns the device with id, or ErrNotFound.
func (db *DB) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	return guard(ctx, db, "get", collDevices, func() (*models.Device, error) {
		var d models.Device
		err := db.store.View(func(txn *badger.Txn) error {
			return getDoc(txn, deviceKey(id), &d)
		})
		if err != nil {
			return nil, err
		}
		return &d, nil
	})
}

// CreateDevice registers a device with status safe and the default voltage.
func (db *DB) CreateDevice(ctx context.Context, in models.DeviceCreate) (*models.Device, error) {
	if err := validateDeviceCreate(&in); err != nil {
		return nil, err
	}

	now := db.now()
	voltage := models.DefaultDeviceVoltage
	device := &models.Device{
		DeviceID:      in.DeviceID,
		Name:          in.Name,
		Type:          in.Type,
		Status:        models.DeviceStatusSafe,
		Location:      models.NewGeoPoint(in.Longitude, in.Latitude),
		Description:   in.Description,
		Voltage:       &voltage,
		LastHeartbeat: now,
		CreatedAt:     now,
	}

	if err := db.insertDevice(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// insertDevice stores a fully built device and indexes its position.
func (db *DB) insertDevice(ctx context.Context, device *models.Device) error {
	_, err := guard(ctx, db, "create", collDevices, func() (struct{}, error) {
		return struct{}{}, db.insert(func(txn *badger.Txn) error {
			return insertDoc(txn, deviceKey(device.DeviceID), device)
		})
	})
	if err != nil {
		return err
	}

	db.spatial.Insert(device.DeviceID, device.Location.Latitude(), device.Location.Longitude())
	metrics.SpatialIndexEntries.Set(float64(db.spatial.Size()))
	db.refreshCount(collDevices, prefixDevice)
	return nil
}

// UpdateDevice merges the non-nil fields of upd into the device and
// refreshes its heartbeat. An empty update still refreshes the heartbeat.
func (db *DB) UpdateDevice(ctx context.Context, id string, upd models.DeviceUpdate) (*models.Device, error) {
	upd.Normalize()
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, invalidInput("unknown device status %q", *upd.Status)
	}
	if upd.Voltage != nil && (math.IsNaN(*upd.Voltage) || math.IsInf(*upd.Voltage, 0)) {
		return nil, invalidInput("voltage must be a finite number")
	}

	return guard(ctx, db, "update", collDevices, func() (*models.Device, error) {
		var d models.Device
		err := db.update(ctx, func(txn *badger.Txn) error {
			d = models.Device{}
			if err := getDoc(txn, deviceKey(id), &d); err != nil {
				return err
			}
			if upd.Status != nil {
				d.Status = *upd.Status
			}
			if upd.Voltage != nil {
				v := *upd.Voltage
				d.Voltage = &v
			}
			if upd.Description != nil {
				desc := *upd.Description
				d.Description = &desc
			}
			d.LastHeartbeat = db.now()
			return putDoc(txn, deviceKey(id), &d)
		})
		if err != nil {
			return nil, err
		}
		return &d, nil
	})
}

func validateDeviceCreate(in *models.DeviceCreate) error {
	in.DeviceID = strings.TrimSpace(in.DeviceID)
	switch {
	case in.DeviceID == "":
		return invalidInput("device_id is required")
	case strings.TrimSpace(in.Name) == "":
		return invalidInput("name is required")
	case !in.Type.Valid():
		return invalidInput("unknown device type %q", in.Type)
	case !validCoordinate(in.Latitude, 90):
		return invalidInput("latitude %v out of range", in.Latitude)
	case !validCoordinate(in.Longitude, 180):
		return invalidInput("longitude %v out of range", in.Longitude)
	}
	return nil
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}
