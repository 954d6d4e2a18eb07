package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postpilot/go-post-backend/internal/domain"
)

func TestListDrafts_EmptyStore(t *testing.T) {
	db := newRecordDB(t)
	drafts := ListDrafts(context.Background(), db)
	if len(drafts) != 0 {
		t.Fatalf("expected empty list, got %d", len(drafts))
	}
}

func TestListDrafts_CorruptRecord_DegradesToEmpty(t *testing.T) {
	db := newRecordDB(t)
	ctx := context.Background()
	if err := putRecord(ctx, db, domain.KeyDrafts, []byte("{not json")); err != nil {
		t.Fatalf("putRecord: %v", err)
	}
	drafts := ListDrafts(ctx, db)
	if len(drafts) != 0 {
		t.Fatalf("corrupt record should read as empty, got %d drafts", len(drafts))
	}
}

func TestSaveDraft_AssignsFieldsAndPrepends(t *testing.T) {
	db := newRecordDB(t)
	ctx := context.Background()

	start := time.Now().UTC().Add(-time.Minute)
	first, err := SaveDraft(ctx, db, domain.Draft{Content: "first", Source: domain.SourceCustom})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if first.ID == "" {
		t.Fatal("id not assigned")
	}
	if first.Status != domain.StatusDraft {
		t.Fatalf("status = %q, want draft", first.Status)
	}
	if first.CreatedAt.Before(start) {
		t.Fatalf("createdAt not set: %v", first.CreatedAt)
	}

	second, err := SaveDraft(ctx, db, domain.Draft{Content: "second", Source: domain.SourceGitHub})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("ids must be distinct")
	}

	drafts := ListDrafts(ctx, db)
	if len(drafts) != 2 {
		t.Fatalf("len = %d, want 2", len(drafts))
	}
	if drafts[0].ID != second.ID || drafts[1].ID != first.ID {
		t.Fatalf("newest should be first: %q then %q", drafts[0].Content, drafts[1].Content)
	}
}

func TestNewDraftID_DistinctWithinSameMilli(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newDraftID(now)
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestUpdateDraft_MergesOnlyPatchedFields(t *testing.T) {
	db := newRecordDB(t)
	ctx := context.Background()

	d, err := SaveDraft(ctx, db, domain.Draft{
		Content:  "Hello",
		Source:   domain.SourceCustom,
		Metadata: domain.Metadata{Topic: "launch"},
	})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	scheduled := domain.StatusScheduled
	updated, err := UpdateDraft(ctx, db, d.ID, domain.DraftPatch{Status: &scheduled})
	if err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	if updated.Status != domain.StatusScheduled {
		t.Fatalf("status = %q", updated.Status)
	}
	if updated.Content != "Hello" || updated.Source != domain.SourceCustom {
		t.Fatalf("unrelated fields changed: %+v", updated)
	}
	if updated.Metadata.Topic != "launch" {
		t.Fatalf("metadata changed: %+v", updated.Metadata)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatal("updatedAt not set")
	}

	// Idempotence: same payload twice yields the same final state.
	again, err := UpdateDraft(ctx, db, d.ID, domain.DraftPatch{Status: &scheduled})
	if err != nil {
		t.Fatalf("second UpdateDraft: %v", err)
	}
	if again.Status != domain.StatusScheduled || again.Content != "Hello" {
		t.Fatalf("second update diverged: %+v", again)
	}
}

func TestUpdateDraft_MissingID(t *testing.T) {
	db := newRecordDB(t)
	content := "x"
	_, err := UpdateDraft(context.Background(), db, "nope", domain.DraftPatch{Content: &content})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDraft_Idempotent(t *testing.T) {
	db := newRecordDB(t)
	ctx := context.Background()

	d, err := SaveDraft(ctx, db, domain.Draft{Content: "bye", Source: domain.SourceCustom})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	removed, err := DeleteDraft(ctx, db, d.ID)
	if err != nil || !removed {
		t.Fatalf("first delete: removed=%v err=%v", removed, err)
	}
	removed, err = DeleteDraft(ctx, db, d.ID)
	if err != nil || removed {
		t.Fatalf("second delete: removed=%v err=%v", removed, err)
	}
	if got := ListDrafts(ctx, db); len(got) != 0 {
		t.Fatalf("%d drafts remain", len(got))
	}
}

func TestDraftLifecycle_SaveApprovePublishDelete(t *testing.T) {
	db := newRecordDB(t)
	ctx := context.Background()

	d, err := SaveDraft(ctx, db, domain.Draft{Content: "Hello", Source: domain.SourceCustom})
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if got := ListDrafts(ctx, db)[0].Status; got != domain.StatusDraft {
		t.Fatalf("status = %q, want draft", got)
	}

	scheduled := domain.StatusScheduled
	if _, err := UpdateDraft(ctx, db, d.ID, domain.DraftPatch{Status: &scheduled}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := ListDrafts(ctx, db)[0].Status; got != domain.StatusScheduled {
		t.Fatalf("status = %q, want scheduled", got)
	}

	if _, err := DeleteDraft(ctx, db, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := ListDrafts(ctx, db); len(got) != 0 {
		t.Fatalf("list len = %d, want 0", len(got))
	}
}
