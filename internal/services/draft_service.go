// Package services – DraftService
//
// This file implements the DraftService, which owns the lifecycle of post
// drafts: creation with title derivation, merge-on-write updates with
// forward-only status transitions, idempotent deletion, and publishing to
// LinkedIn with delete-on-publish semantics.
//
// Service-level errors (e.g., ErrDraftNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/repo"
	"github.com/postpilot/go-post-backend/internal/search"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DraftStore defines the repository contract required by DraftService.
// Implementations are responsible for persistence of the draft queue and the
// records it depends on.
type DraftStore interface {
	// ListDrafts returns the stored queue, newest first. It never fails.
	ListDrafts(ctx context.Context, db *gorm.DB) []domain.Draft

	// SaveDraft assigns an id and prepends the draft to the queue.
	SaveDraft(ctx context.Context, db *gorm.DB, draft domain.Draft) (*domain.Draft, error)

	// UpdateDraft merges a patch into the stored draft.
	UpdateDraft(ctx context.Context, db *gorm.DB, id string, patch domain.DraftPatch) (*domain.Draft, error)

	// DeleteDraft removes the draft, reporting whether it existed.
	DeleteDraft(ctx context.Context, db *gorm.DB, id string) (bool, error)

	// GetSettings returns the stored settings merged over defaults.
	GetSettings(ctx context.Context, db *gorm.DB) domain.Settings

	// GetPublishReceipt looks up a non-expired publish receipt.
	GetPublishReceipt(ctx context.Context, db *gorm.DB, authorID, key string, now time.Time) (*domain.PublishReceipt, error)

	// CreatePublishReceipt records a successful publish for replay.
	CreatePublishReceipt(ctx context.Context, db *gorm.DB, authorID, key, postID string, status int, ttl time.Duration) (*domain.PublishReceipt, error)
}

// Publisher is the LinkedIn surface DraftService needs to publish a share.
type Publisher interface {
	Publish(ctx context.Context, accessToken, personID, text string) (string, error)
}

// DraftService provides draft-level operations: listing, saving with title
// derivation, merge updates with transition checks, and publishing.
type DraftService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Store is the draft repository used by this service.
	Store DraftStore
	// LinkedIn publishes approved drafts. May be nil when publishing is
	// disabled; Publish then fails with ErrNoLinkedInAccount.
	LinkedIn Publisher

	// ReceiptTTL bounds how long a publish receipt satisfies replays.
	ReceiptTTL time.Duration
	// TitleMaxLen caps derived titles by rune length.
	TitleMaxLen int
	// TitleLocale selects the casing rules for derived titles.
	TitleLocale language.Tag

	mu         sync.Mutex
	publishing map[string]struct{}
}

// NewDraftService constructs a DraftService with sane defaults.
func NewDraftService(db *gorm.DB, store DraftStore, pub Publisher) *DraftService {
	return &DraftService{
		DB:          db,
		Store:       store,
		LinkedIn:    pub,
		ReceiptTTL:  24 * time.Hour,
		TitleMaxLen: 60,
		TitleLocale: language.English,
	}
}

// List returns the full draft queue, newest first.
func (s *DraftService) List(ctx context.Context) []domain.Draft {
	tr := otel.Tracer("services/DraftService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	return s.Store.ListDrafts(ctx, s.DB)
}

// Search ranks the stored drafts against a free-text query, best match
// first. A blank query or an empty queue yields an empty slice. The index is
// rebuilt per call; the queue is small enough that this stays cheap.
func (s *DraftService) Search(ctx context.Context, query string, limit int) []domain.Draft {
	tr := otel.Tracer("services/DraftService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(attribute.Int("search.limit", limit)),
	)
	defer span.End()

	drafts := s.Store.ListDrafts(ctx, s.DB)
	if len(drafts) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = len(drafts)
	}
	idx := search.NewIndexFromDrafts(drafts)
	results := idx.TopK(query, limit)
	if len(results) == 0 {
		return nil
	}
	out := make([]domain.Draft, len(results))
	for i, r := range results {
		out[i] = r.Draft
	}
	return out
}

// Save validates and persists a new draft. Content is trimmed and must be
// non-empty; the source must be a known kind. A display title is derived from
// the content when none is provided.
func (s *DraftService) Save(ctx context.Context, draft domain.Draft) (*domain.Draft, error) {
	tr := otel.Tracer("services/DraftService")
	ctx, span := tr.Start(ctx, "Save",
		trace.WithAttributes(attribute.String("draft.source", string(draft.Source))),
	)
	defer span.End()

	draft.Content = strings.TrimSpace(draft.Content)
	if draft.Content == "" {
		return nil, ErrEmptyContent
	}
	if !draft.Source.Valid() {
		return nil, ErrInvalidSource
	}
	if strings.TrimSpace(draft.Title) == "" {
		draft.Title = s.deriveTitle(draft.Content)
	}
	return s.Store.SaveDraft(ctx, s.DB, draft)
}

// Update merges the patch into the stored draft. Status changes are checked
// against the forward-only lifecycle; a content patch must be non-empty.
func (s *DraftService) Update(ctx context.Context, id string, patch domain.DraftPatch) (*domain.Draft, error) {
	tr := otel.Tracer("services/DraftService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.String("draft.id", id)),
	)
	defer span.End()

	if patch.Content != nil {
		trimmed := strings.TrimSpace(*patch.Content)
		if trimmed == "" {
			return nil, ErrEmptyContent
		}
		patch.Content = &trimmed
	}
	if patch.Status != nil {
		current, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.Status.CanTransition(*patch.Status) {
			return nil, ErrInvalidTransition
		}
	}

	updated, err := s.Store.UpdateDraft(ctx, s.DB, id, patch)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDraftNotFound
	}
	return updated, err
}

// Delete removes a draft. Deleting an unknown id is not an error; the bool
// reports whether anything was removed.
func (s *DraftService) Delete(ctx context.Context, id string) (bool, error) {
	tr := otel.Tracer("services/DraftService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("draft.id", id)),
	)
	defer span.End()

	return s.Store.DeleteDraft(ctx, s.DB, id)
}

// Approve moves a draft into the scheduled state.
func (s *DraftService) Approve(ctx context.Context, id string) (*domain.Draft, error) {
	status := domain.StatusScheduled
	return s.Update(ctx, id, domain.DraftPatch{Status: &status})
}

// MarkPosted records that a draft went out without removing it from the queue.
func (s *DraftService) MarkPosted(ctx context.Context, id string) (*domain.Draft, error) {
	status := domain.StatusPosted
	return s.Update(ctx, id, domain.DraftPatch{Status: &status})
}

// Publish sends the draft to LinkedIn and removes it from the queue on
// success. A non-blank idempotency key makes the call replay-safe: a repeated
// key within the receipt TTL returns the recorded post id without contacting
// the provider again. Concurrent publishes of the same draft are rejected.
func (s *DraftService) Publish(ctx context.Context, id, idemKey string) (string, error) {
	tr := otel.Tracer("services/DraftService")
	ctx, span := tr.Start(ctx, "Publish",
		trace.WithAttributes(attribute.String("draft.id", id)),
	)
	defer span.End()

	if !s.beginPublish(id) {
		return "", ErrPublishInFlight
	}
	defer s.endPublish(id)

	settings := s.Store.GetSettings(ctx, s.DB)
	if s.LinkedIn == nil || settings.LinkedInToken == "" || settings.LinkedInSub == "" {
		return "", ErrNoLinkedInAccount
	}

	// The receipt is consulted before the draft: a successful publish deletes
	// the draft, so a retry under the same key must still find its answer.
	if idemKey != "" {
		if rec, rerr := s.Store.GetPublishReceipt(ctx, s.DB, settings.LinkedInSub, idemKey, time.Now().UTC()); rerr == nil {
			_, _ = s.Store.DeleteDraft(ctx, s.DB, id)
			return rec.PostID, nil
		}
	}

	draft, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}

	postID, err := s.LinkedIn.Publish(ctx, settings.LinkedInToken, settings.LinkedInSub, draft.Content)
	if err != nil {
		return "", err
	}

	if idemKey != "" {
		if _, rerr := s.Store.CreatePublishReceipt(ctx, s.DB, settings.LinkedInSub, idemKey, postID, 200, s.ReceiptTTL); rerr != nil && !errors.Is(rerr, repo.ErrDuplicate) {
			return "", rerr
		}
	}

	// Delete-on-publish: a published draft leaves the queue.
	if _, derr := s.Store.DeleteDraft(ctx, s.DB, id); derr != nil {
		return "", derr
	}
	return postID, nil
}

// get finds a draft in the stored queue by id.
func (s *DraftService) get(ctx context.Context, id string) (*domain.Draft, error) {
	for _, d := range s.Store.ListDrafts(ctx, s.DB) {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, ErrDraftNotFound
}

func (s *DraftService) beginPublish(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.publishing == nil {
		s.publishing = make(map[string]struct{})
	}
	if _, busy := s.publishing[id]; busy {
		return false
	}
	s.publishing[id] = struct{}{}
	return true
}

func (s *DraftService) endPublish(id string) {
	s.mu.Lock()
	delete(s.publishing, id)
	s.mu.Unlock()
}

// deriveTitle builds a compact display title from the post body: the first
// few significant words, title-cased.
func (s *DraftService) deriveTitle(content string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(content), -1)
	if len(toks) == 0 {
		return ""
	}

	caser := cases.Title(s.localeOrDefault())
	out := make([]string, 0, 8)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, caser.String(w))
		if len(out) >= 8 {
			break
		}
	}
	if len(out) == 0 {
		return ""
	}
	return s.clipTitle(strings.Join(out, " "))
}

// clipTitle truncates a derived title to the configured maximum rune length.
func (s *DraftService) clipTitle(title string) string {
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		return string([]rune(title)[:max])
	}
	return title
}

func (s *DraftService) localeOrDefault() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

// Extract Unicode letters with optional trailing numbers (e.g., "go2025").
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*`)

// Minimal English stop-words set for compact titles.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "was": {}, "were": {},
}
