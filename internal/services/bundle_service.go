// Package services – BundleService
//
// The bundle operations move the whole store at once: export for backups,
// import to restore one, and clear to wipe everything. Import replaces the
// three stored documents as a unit.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BundleStore defines the repository contract required by BundleService.
type BundleStore interface {
	ExportAll(ctx context.Context, db *gorm.DB) domain.ExportBundle
	ImportAll(ctx context.Context, db *gorm.DB, bundle domain.ExportBundle) error
	ClearAll(ctx context.Context, db *gorm.DB) error
}

// BundleService exposes export, import, and wipe of the whole store.
type BundleService struct {
	DB    *gorm.DB
	Store BundleStore
}

// NewBundleService constructs a BundleService.
func NewBundleService(db *gorm.DB, store BundleStore) *BundleService {
	return &BundleService{DB: db, Store: store}
}

// Export returns a bundle of everything the store holds.
func (s *BundleService) Export(ctx context.Context) domain.ExportBundle {
	tr := otel.Tracer("services/BundleService")
	ctx, span := tr.Start(ctx, "Export")
	defer span.End()

	return s.Store.ExportAll(ctx, s.DB)
}

// Import replaces the stored documents with the bundle's contents.
func (s *BundleService) Import(ctx context.Context, bundle domain.ExportBundle) error {
	tr := otel.Tracer("services/BundleService")
	ctx, span := tr.Start(ctx, "Import",
		trace.WithAttributes(attribute.Int("bundle.drafts", len(bundle.Drafts))),
	)
	defer span.End()

	return s.Store.ImportAll(ctx, s.DB, bundle)
}

// Clear wipes the store.
func (s *BundleService) Clear(ctx context.Context) error {
	tr := otel.Tracer("services/BundleService")
	ctx, span := tr.Start(ctx, "Clear")
	defer span.End()

	return s.Store.ClearAll(ctx, s.DB)
}
