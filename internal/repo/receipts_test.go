package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postpilot/go-post-backend/internal/domain"
)

func TestPublishReceipt_CreateAndGet(t *testing.T) {
	db := newTestDB(t, &domain.PublishReceipt{})
	ctx := context.Background()

	rec, err := CreatePublishReceipt(ctx, db, "urn-123", "key-1", "post-9", 200, time.Hour)
	if err != nil {
		t.Fatalf("CreatePublishReceipt: %v", err)
	}
	if rec.ID == "" || rec.PostID != "post-9" {
		t.Fatalf("unexpected receipt: %+v", rec)
	}

	got, err := GetPublishReceipt(ctx, db, "urn-123", "key-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetPublishReceipt: %v", err)
	}
	if got.PostID != "post-9" || got.Status != 200 {
		t.Fatalf("unexpected receipt: %+v", got)
	}
}

func TestHasPublishReceipt(t *testing.T) {
	db := newTestDB(t, &domain.PublishReceipt{})
	ctx := context.Background()
	now := time.Now().UTC()

	if ok, err := HasPublishReceipt(ctx, db, "key-1", now); err != nil || ok {
		t.Fatalf("empty table: ok=%v err=%v", ok, err)
	}
	if ok, err := HasPublishReceipt(ctx, db, "", now); err != nil || ok {
		t.Fatalf("blank key: ok=%v err=%v", ok, err)
	}

	if _, err := CreatePublishReceipt(ctx, db, "urn-123", "key-1", "post-9", 200, time.Hour); err != nil {
		t.Fatalf("CreatePublishReceipt: %v", err)
	}
	if ok, err := HasPublishReceipt(ctx, db, "key-1", now); err != nil || !ok {
		t.Fatalf("live receipt: ok=%v err=%v", ok, err)
	}
	if ok, err := HasPublishReceipt(ctx, db, "key-1", now.Add(2*time.Hour)); err != nil || ok {
		t.Fatalf("expired receipt: ok=%v err=%v", ok, err)
	}
}

func TestPublishReceipt_DuplicateKey(t *testing.T) {
	db := newTestDB(t, &domain.PublishReceipt{})
	ctx := context.Background()

	if _, err := CreatePublishReceipt(ctx, db, "urn-123", "key-1", "post-1", 200, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := CreatePublishReceipt(ctx, db, "urn-123", "key-1", "post-2", 200, time.Hour)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}

	// Same key for a different author is fine.
	if _, err := CreatePublishReceipt(ctx, db, "urn-456", "key-1", "post-3", 200, time.Hour); err != nil {
		t.Fatalf("different author: %v", err)
	}
}

func TestPublishReceipt_ExpiredNotFound(t *testing.T) {
	db := newTestDB(t, &domain.PublishReceipt{})
	ctx := context.Background()

	if _, err := CreatePublishReceipt(ctx, db, "urn-123", "key-1", "post-1", 200, time.Millisecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := GetPublishReceipt(ctx, db, "urn-123", "key-1", time.Now().UTC().Add(time.Second))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPublishReceipt_BlankKeyNotFound(t *testing.T) {
	db := newTestDB(t, &domain.PublishReceipt{})
	_, err := GetPublishReceipt(context.Background(), db, "urn-123", "", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
