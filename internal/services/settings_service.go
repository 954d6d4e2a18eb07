// Package services – SettingsService
//
// Settings are a single stored record merged over defaults. Saving applies a
// partial patch so clients never have to round-trip fields they do not touch.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"

	"go.opentelemetry.io/otel"
)

// SettingsStore defines the repository contract required by SettingsService.
type SettingsStore interface {
	GetSettings(ctx context.Context, db *gorm.DB) domain.Settings
	SaveSettings(ctx context.Context, db *gorm.DB, patch domain.SettingsPatch) (domain.Settings, error)
}

// SettingsService exposes the settings record to the HTTP layer.
type SettingsService struct {
	DB    *gorm.DB
	Store SettingsStore
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(db *gorm.DB, store SettingsStore) *SettingsService {
	return &SettingsService{DB: db, Store: store}
}

// Get returns the stored settings merged over defaults.
func (s *SettingsService) Get(ctx context.Context) domain.Settings {
	tr := otel.Tracer("services/SettingsService")
	ctx, span := tr.Start(ctx, "Get")
	defer span.End()

	return s.Store.GetSettings(ctx, s.DB)
}

// Save merges the patch into the stored settings and returns the result.
func (s *SettingsService) Save(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	tr := otel.Tracer("services/SettingsService")
	ctx, span := tr.Start(ctx, "Save")
	defer span.End()

	return s.Store.SaveSettings(ctx, s.DB, patch)
}
