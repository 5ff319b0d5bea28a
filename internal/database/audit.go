// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/sentinelguard/internal/audit"
)

const (
	prefixAudit = "audit:"
	collAudit   = "audit"
)

// auditKey sorts newest first, like the alert index.
func auditKey(ts time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", prefixAudit, invertedNanos(ts), id))
}

func invertedNanos(ts time.Time) int64 {
	return math.MaxInt64 - ts.UnixNano()
}

// AuditStore persists audit events next to the directory records.
type AuditStore struct {
	db *DB
}

// AuditStore returns the audit.Store backed by this directory.
func (db *DB) AuditStore() *AuditStore {
	return &AuditStore{db: db}
}

var _ audit.Store = (*AuditStore)(nil)

// Save implements audit.Store.
func (s *AuditStore) Save(ctx context.Context, event *audit.Event) error {
	_, err := guard(ctx, s.db, "save", collAudit, func() (struct{}, error) {
		return struct{}{}, s.db.store.Update(func(txn *badger.Txn) error {
			return putDoc(txn, auditKey(event.Timestamp, event.ID), event)
		})
	})
	return err
}

// Query implements audit.Store. Results are newest first.
func (s *AuditStore) Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	limit := filter.EffectiveLimit()
	return guard(ctx, s.db, "query", collAudit, func() ([]audit.Event, error) {
		events := []audit.Event{}
		err := s.db.store.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefixAudit)
			it := txn.NewIterator(opts)
			defer it.Close()

			start := opts.Prefix
			if filter.EndTime != nil {
				// skip everything newer than the range
				start = []byte(fmt.Sprintf("%s%019d", prefixAudit, invertedNanos(*filter.EndTime)))
			}
			for it.Seek(start); it.Valid() && len(events) < limit; it.Next() {
				item := it.Item()
				var ev audit.Event
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &ev)
				}); err != nil {
					return fmt.Errorf("unmarshal %s: %w", item.Key(), err)
				}
				if filter.StartTime != nil && ev.Timestamp.Before(*filter.StartTime) {
					return nil
				}
				if filter.Matches(&ev) {
					events = append(events, ev)
				}
			}
			return nil
		})
		return events, err
	})
}

// Delete implements audit.Store. Keys older than the cutoff form a suffix of
// the prefix range, so only that suffix is visited.
func (s *AuditStore) Delete(ctx context.Context, olderThan time.Time) (int64, error) {
	return guard(ctx, s.db, "delete", collAudit, func() (int64, error) {
		var keys [][]byte
		err := s.db.store.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefixAudit)
			opts.PrefetchValues = false
			it := txn.NewIterator(opts)
			defer it.Close()

			start := []byte(fmt.Sprintf("%s%019d", prefixAudit, invertedNanos(olderThan)+1))
			for it.Seek(start); it.Valid(); it.Next() {
				keys = append(keys, it.Item().KeyCopy(nil))
			}
			return nil
		})
		if err != nil || len(keys) == 0 {
			return 0, err
		}

		wb := s.db.store.NewWriteBatch()
		for _, k := range keys {
			if err := wb.Delete(k); err != nil {
				wb.Cancel()
				return 0, fmt.Errorf("delete %s: %w", k, err)
			}
		}
		if err := wb.Flush(); err != nil {
			return 0, fmt.Errorf("flush audit deletes: %w", err)
		}
		return int64(len(keys)), nil
	})
}
