// Package repo implements the persistence layer. This file provides the raw
// key-value record access the typed stores are built on.
//
// Every value is a whole JSON document replaced atomically per write: there is
// no partial update at this level, so two racing read-modify-write sequences
// resolve as last-writer-wins on the full document. That matches the
// single-user deployment this store is built for.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across layers.
var ErrNotFound = gorm.ErrRecordNotFound

// getRecord returns the stored value under key, or ErrNotFound.
func getRecord(ctx context.Context, db *gorm.DB, key string) ([]byte, error) {
	var rec domain.Record
	err := db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Value, nil
}

// putRecord replaces the whole value under key, creating the row if absent.
func putRecord(ctx context.Context, db *gorm.DB, key string, value []byte) error {
	rec := domain.Record{Key: key, Value: value}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

// deleteRecord removes the row under key. Deleting a missing key is a no-op.
func deleteRecord(ctx context.Context, db *gorm.DB, key string) error {
	return db.WithContext(ctx).Where("key = ?", key).Delete(&domain.Record{}).Error
}
