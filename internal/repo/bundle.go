// Package repo implements the persistence layer. This file provides backup
// operations over all three stores: export, import, and clear.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// ExportAll snapshots the three stores into a single bundle for download.
func ExportAll(ctx context.Context, db *gorm.DB) domain.ExportBundle {
	settings := GetSettings(ctx, db)
	return domain.ExportBundle{
		Drafts:     ListDrafts(ctx, db),
		Settings:   &settings,
		GitHubData: GetSnapshot(ctx, db),
		ExportedAt: time.Now().UTC(),
	}
}

// ImportAll overwrites each store for which the bundle carries a section.
// Absent sections leave the corresponding store untouched.
func ImportAll(ctx context.Context, db *gorm.DB, bundle domain.ExportBundle) error {
	if bundle.Drafts != nil {
		raw, err := json.Marshal(bundle.Drafts)
		if err != nil {
			return err
		}
		if err := putRecord(ctx, db, domain.KeyDrafts, raw); err != nil {
			return err
		}
	}
	if bundle.Settings != nil {
		raw, err := json.Marshal(bundle.Settings)
		if err != nil {
			return err
		}
		if err := putRecord(ctx, db, domain.KeySettings, raw); err != nil {
			return err
		}
	}
	if bundle.GitHubData != nil {
		raw, err := json.Marshal(bundle.GitHubData)
		if err != nil {
			return err
		}
		if err := putRecord(ctx, db, domain.KeySnapshot, raw); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll unconditionally empties all three stores.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	for _, key := range []string{domain.KeyDrafts, domain.KeySettings, domain.KeySnapshot} {
		if err := deleteRecord(ctx, db, key); err != nil {
			return err
		}
	}
	return nil
}
