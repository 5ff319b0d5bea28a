// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/tomtom215/sentinelguard/internal/models"
)

// alertIndexKey sorts newest first: the timestamp is inverted and
// zero-padded so lexicographic order is reverse chronological.
func alertIndexKey(a *models.Alert) []byte {
	inverted := math.MaxInt64 - a.CreatedAt.UnixNano()
	return []byte(fmt.Sprintf("%s%019d:%s", prefixAlertIdx, inverted, a.AlertID))
}

// CreateAlert raises an alert against deviceID. The device is not required
// to exist.
func (db *DB) CreateAlert(ctx context.Context, deviceID, alertType, message string, severity models.AlertSeverity) (*models.Alert, error) {
	switch {
	case strings.TrimSpace(deviceID) == "":
		return nil, invalidInput("device_id is required")
	case strings.TrimSpace(alertType) == "":
		return nil, invalidInput("alert type is required")
	case !severity.Valid():
		return nil, invalidInput("unknown alert severity %q", severity)
	}

	alert := &models.Alert{
		AlertID:   uuid.New().String(),
		DeviceID:  deviceID,
		Type:      alertType,
		Message:   message,
		Severity:  severity,
		CreatedAt: db.now(),
	}

	_, err := guard(ctx, db, "create", collAlerts, func() (struct{}, error) {
		return struct{}{}, db.insert(func(txn *badger.Txn) error {
			key := alertKey(alert.AlertID)
			if err := insertDoc(txn, key, alert); err != nil {
				return err
			}
			return txn.Set(alertIndexKey(alert), key)
		})
	})
	if err != nil {
		return nil, err
	}
	db.refreshCount(collAlerts, prefixAlert)
	return alert, nil
}

// ListAlerts returns up to limit alerts, newest first. A limit <= 0 returns
// every alert.
func (db *DB) ListAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	return guard(ctx, db, "list", collAlerts, func() ([]models.Alert, error) {
		alerts := []models.Alert{}
		err := db.store.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefixAlertIdx)
			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				if limit > 0 && len(alerts) >= limit {
					return nil
				}
				key, err := it.Item().ValueCopy(nil)
				if err != nil {
					return fmt.Errorf("read alert index: %w", err)
				}
				var a models.Alert
				if err := getDoc(txn, key, &a); err != nil {
					return err
				}
				alerts = append(alerts, a)
			}
			return nil
		})
		return alerts, err
	})
}

// GetAlert returns the alert with id, or ErrNotFound.
func (db *DB) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	return guard(ctx, db, "get", collAlerts, func() (*models.Alert, error) {
		var a models.Alert
		err := db.store.View(func(txn *badger.Txn) error {
			return getDoc(txn, alertKey(id), &a)
		})
		if err != nil {
			return nil, err
		}
		return &a, nil
	})
}

// AcknowledgeAlert marks an alert acknowledged by the given user. Repeating
// the call updates the acknowledger.
func (db *DB) AcknowledgeAlert(ctx context.Context, id, by string) (*models.Alert, error) {
	return guard(ctx, db, "acknowledge", collAlerts, func() (*models.Alert, error) {
		var a models.Alert
		err := db.update(ctx, func(txn *badger.Txn) error {
			a = models.Alert{}
			if err := getDoc(txn, alertKey(id), &a); err != nil {
				return err
			}
			a.Acknowledged = true
			if by != "" {
				a.AcknowledgedBy = &by
			}
			return putDoc(txn, alertKey(id), &a)
		})
		if err != nil {
			return nil, err
		}
		return &a, nil
	})
}
