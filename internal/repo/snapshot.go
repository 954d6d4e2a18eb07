// Package repo implements the persistence layer. This file provides the GitHub
// snapshot store. The snapshot's presence is the "connected" signal used by the
// rest of the system; clearing it is the disconnect operation, which also
// erases the GitHub credentials held in settings.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// GetSnapshot returns the cached snapshot, or nil when none is stored (the
// account is not connected). Corrupt data degrades to nil with a logged
// warning.
func GetSnapshot(ctx context.Context, db *gorm.DB) *domain.Snapshot {
	raw, err := getRecord(ctx, db, domain.KeySnapshot)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("snapshot record unreadable, treating as absent")
		return nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Warn().Err(err).Msg("snapshot record corrupt, treating as absent")
		return nil
	}
	return &snap
}

// SaveSnapshot stamps fetchedAt and persists the snapshot.
func SaveSnapshot(ctx context.Context, db *gorm.DB, snap domain.Snapshot) error {
	snap.FetchedAt = time.Now().UTC()
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return putRecord(ctx, db, domain.KeySnapshot, raw)
}

// ClearSnapshot removes the snapshot record and erases the GitHub username and
// token from settings. Disconnect is "erase snapshot and erase credentials",
// not just "erase snapshot".
func ClearSnapshot(ctx context.Context, db *gorm.DB) error {
	if err := deleteRecord(ctx, db, domain.KeySnapshot); err != nil {
		return err
	}
	empty := ""
	_, err := SaveSettings(ctx, db, domain.SettingsPatch{
		GitHubUsername: &empty,
		GitHubToken:    &empty,
	})
	return err
}
