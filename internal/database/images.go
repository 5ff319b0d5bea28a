// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package database

import (
	"context"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/sentinelguard/internal/models"
)

// ListImages returns images matching filter, newest capture first.
func (db *DB) ListImages(ctx context.Context, filter models.ImageFilter) ([]models.ImageRecord, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidInput("unknown image status %q", filter.Status)
	}

	return guard(ctx, db, "list", collImages, func() ([]models.ImageRecord, error) {
		images := []models.ImageRecord{}
		err := db.store.View(func(txn *badger.Txn) error {
			return scanPrefix(txn, prefixImage, func(img *models.ImageRecord) error {
				if filter.Matches(img) {
					images = append(images, *img)
				}
				return nil
			})
		})
		if err != nil {
			return nil, err
		}

		sort.SliceStable(images, func(i, j int) bool {
			if !images[i].CapturedAt.Equal(images[j].CapturedAt) {
				return images[i].CapturedAt.After(images[j].CapturedAt)
			}
			return images[i].ImageID < images[j].ImageID
		})
		return images, nil
	})
}

// GetImage returns the image with id, or ErrNotFound.
func (db *DB) GetImage(ctx context.Context, id string) (*models.ImageRecord, error) {
	return guard(ctx, db, "get", collImages, func() (*models.ImageRecord, error) {
		var img models.ImageRecord
		err := db.store.View(func(txn *badger.Txn) error {
			return getDoc(txn, imageKey(id), &img)
		})
		if err != nil {
			return nil, err
		}
		return &img, nil
	})
}

// CreateImage stores a capture record. An empty status means unreviewed and
// a zero CapturedAt means now.
func (db *DB) CreateImage(ctx context.Context, rec models.ImageRecord) (*models.ImageRecord, error) {
	rec.ImageID = strings.TrimSpace(rec.ImageID)
	if rec.ImageID == "" {
		return nil, invalidInput("image_id is required")
	}
	if rec.Status == "" {
		rec.Status = models.ImageStatusUnreviewed
	}
	if !rec.Status.Valid() {
		return nil, invalidInput("unknown image status %q", rec.Status)
	}
	if rec.CapturedAt.IsZero() {
		rec.CapturedAt = db.now()
	}
	rec.CapturedAt = rec.CapturedAt.UTC()

	_, err := guard(ctx, db, "create", collImages, func() (struct{}, error) {
		return struct{}{}, db.insert(func(txn *badger.Txn) error {
			return insertDoc(txn, imageKey(rec.ImageID), &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	db.refreshCount(collImages, prefixImage)
	return &rec, nil
}

// UpdateImage records a review: status, notes, reviewer and review time are
// written together. Nil notes clear any previous notes.
func (db *DB) UpdateImage(ctx context.Context, id string, status models.ImageStatus, notes *string, reviewer string) (*models.ImageRecord, error) {
	if !status.Valid() {
		return nil, invalidInput("unknown image status %q", status)
	}
	return db.reviewImage(ctx, "tag", id, func(img *models.ImageRecord) {
		img.Status = status
		img.Notes = copyString(notes)
	}, reviewer)
}

// SaveImageNotes replaces the notes on an image and records the reviewer,
// leaving the status untouched.
func (db *DB) SaveImageNotes(ctx context.Context, id, notes, reviewer string) (*models.ImageRecord, error) {
	return db.reviewImage(ctx, "notes", id, func(img *models.ImageRecord) {
		img.Notes = &notes
	}, reviewer)
}

func (db *DB) reviewImage(ctx context.Context, op, id string, apply func(*models.ImageRecord), reviewer string) (*models.ImageRecord, error) {
	return guard(ctx, db, op, collImages, func() (*models.ImageRecord, error) {
		var img models.ImageRecord
		err := db.update(ctx, func(txn *badger.Txn) error {
			img = models.ImageRecord{}
			if err := getDoc(txn, imageKey(id), &img); err != nil {
				return err
			}
			apply(&img)
			now := db.now()
			img.ReviewedBy = &reviewer
			img.ReviewedAt = &now
			return putDoc(txn, imageKey(id), &img)
		})
		if err != nil {
			return nil, err
		}
		return &img, nil
	})
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
