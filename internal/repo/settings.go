// Package repo implements the persistence layer. This file provides the
// settings store: a singleton JSON record merged over hard-coded defaults on
// read and merged field-wise on write, never replaced wholesale.
package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// GetSettings returns the stored settings merged over defaults. Missing or
// corrupt data degrades to the defaults with a logged warning.
func GetSettings(ctx context.Context, db *gorm.DB) domain.Settings {
	raw, err := getRecord(ctx, db, domain.KeySettings)
	if errors.Is(err, ErrNotFound) {
		return domain.DefaultSettings()
	}
	if err != nil {
		log.Warn().Err(err).Msg("settings record unreadable, using defaults")
		return domain.DefaultSettings()
	}

	// Unmarshal over the defaults so fields absent from the stored JSON keep
	// their default values.
	s := domain.DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Warn().Err(err).Msg("settings record corrupt, using defaults")
		return domain.DefaultSettings()
	}
	return s
}

// SaveSettings merges the patch into the current settings (read-merge-write)
// and persists the result. Fields absent from the patch retain prior values.
func SaveSettings(ctx context.Context, db *gorm.DB, patch domain.SettingsPatch) (domain.Settings, error) {
	merged := patch.Apply(GetSettings(ctx, db))
	raw, err := json.Marshal(merged)
	if err != nil {
		return merged, err
	}
	if err := putRecord(ctx, db, domain.KeySettings, raw); err != nil {
		return merged, err
	}
	return merged, nil
}
