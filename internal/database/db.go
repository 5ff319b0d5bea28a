// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sentinelguard/internal/cache"
	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/metrics"
	"github.com/tomtom215/sentinelguard/internal/models"
)

// DefaultRadiusMeters applies to proximity queries without a positive radius.
const DefaultRadiusMeters = 1000.0

// gcDiscardRatio is the value log rewrite threshold used by RunValueLogGC.
const gcDiscardRatio = 0.5

// DB is the directory repository. It is safe for concurrent use.
type DB struct {
	store   *badger.DB
	cfg     *config.DatabaseConfig
	spatial *cache.SpatialHashGrid
	breaker *gobreaker.CircuitBreaker[any]
	now     func() time.Time
	closed  atomic.Bool
}

// New opens the Badger store described by cfg and rebuilds the spatial
// index from the stored devices.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path is required unless in_memory is set")
		}
		// 0750 per gosec G301
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	store, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	db := &DB{
		store:   store,
		cfg:     cfg,
		spatial: cache.NewSpatialHashGrid(cache.DefaultCellSizeKm),
		breaker: newStoreBreaker(DefaultBreakerFailures, DefaultBreakerOpenFor),
		now:     func() time.Time { return time.Now().UTC() },
	}

	if err := db.rebuildSpatialIndex(); err != nil {
		_ = store.Close() // best-effort cleanup
		return nil, err
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("indexed_devices", db.spatial.Size()).
		Msg("Directory store opened")
	return db, nil
}

// Close releases the store. Calls after the first are no-ops.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := db.store.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Directory store closed")
	return nil
}

// Ping reports whether the store can serve a read transaction.
func (db *DB) Ping(ctx context.Context) error {
	_, err := guard(ctx, db, "ping", "store", func() (struct{}, error) {
		if db.store.IsClosed() {
			return struct{}{}, fmt.Errorf("%w: store closed", ErrStoreUnavailable)
		}
		return struct{}{}, db.store.View(func(txn *badger.Txn) error {
			_, err := txn.Get([]byte("ping"))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		})
	})
	return err
}

// RunValueLogGC rewrites value log files until Badger reports nothing left
// to reclaim. It returns the number of files rewritten. In-memory stores
// have no value log and return 0.
func (db *DB) RunValueLogGC() (int, error) {
	if db.cfg.InMemory {
		return 0, nil
	}
	if db.closed.Load() {
		return 0, ErrStoreUnavailable
	}

	rewritten := 0
	for {
		err := db.store.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			break
		}
		if err != nil {
			metrics.DBValueLogGCRuns.WithLabelValues("error").Inc()
			return rewritten, fmt.Errorf("run value log GC: %w", err)
		}
		rewritten++
	}

	result := "noop"
	if rewritten > 0 {
		result = "rewritten"
	}
	metrics.DBValueLogGCRuns.WithLabelValues(result).Inc()
	return rewritten, nil
}

// DefaultRadius returns the configured default proximity radius.
func (db *DB) DefaultRadius() float64 {
	if db.cfg.DefaultRadiusMeters > 0 {
		return db.cfg.DefaultRadiusMeters
	}
	return DefaultRadiusMeters
}

// rebuildSpatialIndex loads every device position into the grid.
func (db *DB) rebuildSpatialIndex() error {
	db.spatial.Clear()
	err := db.store.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefixDevice, func(d *models.Device) error {
			db.spatial.Insert(d.DeviceID, d.Location.Latitude(), d.Location.Longitude())
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("rebuild spatial index: %w", err)
	}
	metrics.SpatialIndexEntries.Set(float64(db.spatial.Size()))
	return nil
}
