// Package repo implements the persistence layer. This file provides the draft
// store: the "drafts" record holds a single JSON array, newest first.
//
// Error semantics follow an availability-over-strictness policy for reads:
// a missing or corrupt drafts record degrades to an empty list with a logged
// warning, never an error. The data is user-owned and non-critical; refusing
// to start over a bad byte would be worse than losing the queue view.
//
// Functions:
//
//   - ListDrafts(ctx, db) -> []domain.Draft
//     Returns drafts in stored order (most recently created first).
//
//   - SaveDraft(ctx, db, draft) -> *domain.Draft, error
//     Assigns id/createdAt/status and prepends to the list.
//
//   - UpdateDraft(ctx, db, id, patch) -> *domain.Draft, error
//     Merges patch fields into the matching record; ErrNotFound if absent.
//
//   - DeleteDraft(ctx, db, id) -> removed bool, error
//     Removes the matching record; deleting a missing id is a successful no-op.
package repo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// newDraftID derives an id from the creation instant plus random entropy so
// two saves within the same millisecond cannot collide.
func newDraftID(now time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("%d-%s", now.UnixMilli(), hex.EncodeToString(b[:]))
}

// loadDrafts decodes the drafts record, degrading to empty on any failure.
func loadDrafts(ctx context.Context, db *gorm.DB) []domain.Draft {
	raw, err := getRecord(ctx, db, domain.KeyDrafts)
	if errors.Is(err, ErrNotFound) {
		return []domain.Draft{}
	}
	if err != nil {
		log.Warn().Err(err).Msg("drafts record unreadable, treating as empty")
		return []domain.Draft{}
	}
	var drafts []domain.Draft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		log.Warn().Err(err).Msg("drafts record corrupt, treating as empty")
		return []domain.Draft{}
	}
	return drafts
}

// storeDrafts persists the whole list under the drafts key.
func storeDrafts(ctx context.Context, db *gorm.DB, drafts []domain.Draft) error {
	raw, err := json.Marshal(drafts)
	if err != nil {
		return err
	}
	return putRecord(ctx, db, domain.KeyDrafts, raw)
}

// ListDrafts returns all drafts in stored order, newest first. It never fails:
// missing or corrupt data yields an empty slice.
func ListDrafts(ctx context.Context, db *gorm.DB) []domain.Draft {
	return loadDrafts(ctx, db)
}

// SaveDraft assigns id, createdAt, and status=draft to the given draft,
// prepends it to the list, and persists the whole list. The returned draft's
// id is usable immediately for update and delete.
func SaveDraft(ctx context.Context, db *gorm.DB, draft domain.Draft) (*domain.Draft, error) {
	now := time.Now().UTC()
	draft.ID = newDraftID(now)
	draft.CreatedAt = now
	draft.Status = domain.StatusDraft

	drafts := loadDrafts(ctx, db)
	drafts = append([]domain.Draft{draft}, drafts...)
	if err := storeDrafts(ctx, db, drafts); err != nil {
		return nil, err
	}
	return &draft, nil
}

// UpdateDraft merges patch fields into the draft with the given id, sets
// updatedAt, and persists the whole list. Returns ErrNotFound when no draft
// has that id.
func UpdateDraft(ctx context.Context, db *gorm.DB, id string, patch domain.DraftPatch) (*domain.Draft, error) {
	drafts := loadDrafts(ctx, db)
	for i := range drafts {
		if drafts[i].ID != id {
			continue
		}
		if patch.Title != nil {
			drafts[i].Title = *patch.Title
		}
		if patch.Content != nil {
			drafts[i].Content = *patch.Content
		}
		if patch.Status != nil {
			drafts[i].Status = *patch.Status
		}
		drafts[i].UpdatedAt = time.Now().UTC()
		if err := storeDrafts(ctx, db, drafts); err != nil {
			return nil, err
		}
		d := drafts[i]
		return &d, nil
	}
	return nil, ErrNotFound
}

// DeleteDraft removes the draft with the given id and reports whether a
// record was removed. Deleting a missing id succeeds without effect.
func DeleteDraft(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	drafts := loadDrafts(ctx, db)
	kept := drafts[:0]
	removed := false
	for _, d := range drafts {
		if d.ID == id {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	if !removed {
		return false, nil
	}
	if err := storeDrafts(ctx, db, kept); err != nil {
		return false, err
	}
	return true, nil
}
