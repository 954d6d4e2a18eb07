// Package repo implements the persistence layer. This file provides publish
// receipts, which give the publish proxy safe-retry semantics: a client that
// retries POST /api/linkedin/post with the same Idempotency-Key gets the
// recorded post id back instead of publishing twice.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// ErrDuplicate indicates a receipt already exists for (author_id, key).
var ErrDuplicate = errors.New("duplicate")

// GetPublishReceipt returns a non-expired receipt or ErrNotFound.
func GetPublishReceipt(ctx context.Context, db *gorm.DB, authorID, key string, now time.Time) (*domain.PublishReceipt, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.PublishReceipt
	err := db.WithContext(ctx).
		Where("author_id = ? AND key = ? AND expires_at > ?", authorID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// HasPublishReceipt reports whether any non-expired receipt exists for key,
// regardless of author. The idempotency middleware uses it to flag replays
// before the handler runs.
func HasPublishReceipt(ctx context.Context, db *gorm.DB, key string, now time.Time) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).Model(&domain.PublishReceipt{}).
		Where("key = ? AND expires_at > ?", key, now).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreatePublishReceipt records a completed publish and returns ErrDuplicate on
// a unique violation for (author_id, key).
func CreatePublishReceipt(ctx context.Context, db *gorm.DB, authorID, key, postID string, status int, ttl time.Duration) (*domain.PublishReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.PublishReceipt{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Key:       key,
		PostID:    postID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite surfaces UNIQUE violations as plain-text errors.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
