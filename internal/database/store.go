// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for each collection.
const (
	prefixUser     = "user:"
	prefixDevice   = "device:"
	prefixAlert    = "alert:"
	prefixAlertIdx = "alertidx:"
	prefixImage    = "image:"
)

// Collection names used as metric labels.
const (
	collUsers   = "users"
	collDevices = "devices"
	collAlerts  = "alerts"
	collImages  = "images"
)

func userKey(username string) []byte { return []byte(prefixUser + username) }
func deviceKey(id string) []byte     { return []byte(prefixDevice + id) }
func alertKey(id string) []byte      { return []byte(prefixAlert + id) }
func imageKey(id string) []byte      { return []byte(prefixImage + id) }

// getDoc decodes the document at key into v.
func getDoc(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		return nil
	})
}

// putDoc encodes v and writes it at key.
func putDoc(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := txn.Set(key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// insertDoc writes v at key unless the key already exists. The read and the
// write share txn, so a concurrent insert of the same key conflicts at commit.
func insertDoc(txn *badger.Txn, key []byte, v interface{}) error {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return ErrDuplicateKey
	case !errors.Is(err, badger.ErrKeyNotFound):
		return fmt.Errorf("get %s: %w", key, err)
	}
	return putDoc(txn, key, v)
}

// maxConflictRetries bounds how often a read-modify-write transaction is
// re-run after a commit conflict.
const maxConflictRetries = 100

// insert runs fn, which must create keys with insertDoc, in a read-write
// transaction. A commit conflict means a concurrent writer created the same
// key first.
func (db *DB) insert(fn func(txn *badger.Txn) error) error {
	err := db.store.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return ErrDuplicateKey
	}
	return err
}

// update runs a read-modify-write transaction. When a concurrent commit
// touched the same keys, fn is re-run against the fresh state, so the last
// writer wins. fn must not keep state between runs.
func (db *DB) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.store.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}

		// 1ms, 2ms, 4ms, then 8ms per attempt
		backoff := time.Millisecond * time.Duration(1<<uint(min(attempt, 3)))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("gave up after %d conflicting commits: %w", maxConflictRetries, err)
}

// scanPrefix decodes every document under prefix in key order and calls fn.
func scanPrefix[T any](txn *badger.Txn, prefix string, fn func(*T) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		var doc T
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
		if err != nil {
			return fmt.Errorf("unmarshal %s: %w", item.Key(), err)
		}
		if err := fn(&doc); err != nil {
			return err
		}
	}
	return nil
}

// countPrefix counts keys under prefix without fetching values.
func countPrefix(txn *badger.Txn, prefix string) int {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	for it.Rewind(); it.Valid(); it.Next() {
		n++
	}
	return n
}

