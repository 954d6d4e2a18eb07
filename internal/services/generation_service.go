// Package services – GenerationService
//
// This file implements GenerationService, which orchestrates AI post
// generation: it validates per-source inputs, pulls cached GitHub data when
// needed, builds the prompt, and calls the LLM. Regeneration is the same call
// repeated; nothing is persisted until SaveGenerated.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// the source kind.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/prompt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Completer is the LLM surface GenerationService depends on.
type Completer interface {
	Complete(ctx context.Context, prompt, apiKey string) (string, error)
	ValidateKey(ctx context.Context, apiKey string) bool
}

// GenerationStore defines the repository contract required by
// GenerationService.
type GenerationStore interface {
	GetSettings(ctx context.Context, db *gorm.DB) domain.Settings
	GetSnapshot(ctx context.Context, db *gorm.DB) *domain.Snapshot
}

// DraftSaver persists a generated draft. *DraftService satisfies it.
type DraftSaver interface {
	Save(ctx context.Context, draft domain.Draft) (*domain.Draft, error)
}

// GenerateRequest carries the per-source inputs for one generation call.
// Only the group matching Source is consulted.
type GenerateRequest struct {
	Source domain.Source

	// Certificate posts.
	Title   string
	Issuer  string
	Skills  string
	Context string

	// GitHub activity posts. RepoNames selects repositories from the cached
	// snapshot by name.
	RepoNames []string
	Focus     string

	// Custom posts.
	Topic     string
	KeyPoints string

	// Tone falls back to the stored default when empty.
	Tone domain.Tone
}

// GenerationService coordinates prompt construction and LLM calls.
type GenerationService struct {
	DB    *gorm.DB
	Store GenerationStore
	LLM   Completer
	// Drafts persists accepted generations. Optional; SaveGenerated fails
	// without it.
	Drafts DraftSaver

	mu       sync.Mutex
	inFlight map[domain.Source]struct{}
}

// Generate validates the request, assembles the prompt for its source kind,
// and returns the generated post text. A second concurrent call for the same
// source kind is rejected with ErrGenerationInFlight.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(attribute.String("generate.source", string(req.Source))),
	)
	defer span.End()

	if !req.Source.Valid() {
		return "", ErrInvalidSource
	}
	if !s.begin(req.Source) {
		return "", ErrGenerationInFlight
	}
	defer s.end(req.Source)

	settings := s.Store.GetSettings(ctx, s.DB)
	if settings.GroqAPIKey == "" {
		return "", ErrNoAPIKey
	}
	tone := req.Tone
	if tone == "" {
		tone = settings.DefaultTone
	}

	var p string
	switch req.Source {
	case domain.SourceCertificate:
		if strings.TrimSpace(req.Title) == "" {
			return "", fmt.Errorf("%w: title", ErrMissingInput)
		}
		if strings.TrimSpace(req.Issuer) == "" {
			return "", fmt.Errorf("%w: issuer", ErrMissingInput)
		}
		p = prompt.Certificate(prompt.CertificateInput{
			Title:   req.Title,
			Issuer:  req.Issuer,
			Skills:  req.Skills,
			Context: req.Context,
			Tone:    tone,
		})

	case domain.SourceGitHub:
		snap := s.Store.GetSnapshot(ctx, s.DB)
		if snap == nil {
			return "", ErrNotConnected
		}
		if len(req.RepoNames) == 0 {
			return "", fmt.Errorf("%w: repos", ErrMissingInput)
		}
		p = prompt.Activity(prompt.ActivityInput{
			Summary: snap.Summary,
			Repos:   selectRepos(snap.Repos, req.RepoNames),
			Focus:   req.Focus,
			Tone:    tone,
		})

	case domain.SourceCustom:
		if strings.TrimSpace(req.Topic) == "" {
			return "", fmt.Errorf("%w: topic", ErrMissingInput)
		}
		p = prompt.Custom(prompt.CustomInput{
			Topic:     req.Topic,
			KeyPoints: req.KeyPoints,
			Tone:      tone,
		})
	}

	return s.LLM.Complete(ctx, p, settings.GroqAPIKey)
}

// Improve rewrites existing post text according to the instructions.
func (s *GenerationService) Improve(ctx context.Context, content, instructions string) (string, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "Improve")
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	if strings.TrimSpace(instructions) == "" {
		return "", fmt.Errorf("%w: instructions", ErrMissingInput)
	}
	settings := s.Store.GetSettings(ctx, s.DB)
	if settings.GroqAPIKey == "" {
		return "", ErrNoAPIKey
	}
	return s.LLM.Complete(ctx, prompt.Improve(content, instructions), settings.GroqAPIKey)
}

// SaveGenerated persists an accepted generation as a new draft, freezing the
// request inputs into the draft metadata.
func (s *GenerationService) SaveGenerated(ctx context.Context, req GenerateRequest, content string) (*domain.Draft, error) {
	tr := otel.Tracer("services/GenerationService")
	ctx, span := tr.Start(ctx, "SaveGenerated",
		trace.WithAttributes(attribute.String("generate.source", string(req.Source))),
	)
	defer span.End()

	if s.Drafts == nil {
		return nil, fmt.Errorf("draft persistence not configured")
	}
	meta := domain.Metadata{Tone: req.Tone}
	switch req.Source {
	case domain.SourceCertificate:
		meta.CertificateTitle = req.Title
		meta.Issuer = req.Issuer
		meta.Skills = req.Skills
	case domain.SourceGitHub:
		meta.Repos = req.RepoNames
		meta.Focus = req.Focus
	case domain.SourceCustom:
		meta.Topic = req.Topic
		meta.KeyPoints = req.KeyPoints
	}
	return s.Drafts.Save(ctx, domain.Draft{
		Content:  content,
		Source:   req.Source,
		Metadata: meta,
	})
}

// ValidateKey probes whether an API key is accepted by the provider.
func (s *GenerationService) ValidateKey(ctx context.Context, apiKey string) bool {
	if strings.TrimSpace(apiKey) == "" {
		return false
	}
	return s.LLM.ValidateKey(ctx, apiKey)
}

func (s *GenerationService) begin(src domain.Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[domain.Source]struct{})
	}
	if _, busy := s.inFlight[src]; busy {
		return false
	}
	s.inFlight[src] = struct{}{}
	return true
}

func (s *GenerationService) end(src domain.Source) {
	s.mu.Lock()
	delete(s.inFlight, src)
	s.mu.Unlock()
}

// selectRepos picks the snapshot repos whose names are in the requested set,
// preserving snapshot order. Unknown names are ignored.
func selectRepos(all []domain.Repo, names []string) []domain.Repo {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := make([]domain.Repo, 0, len(names))
	for _, r := range all {
		if _, ok := want[r.Name]; ok {
			out = append(out, r)
		}
	}
	return out
}
