// Handler wiring.
//
// This file declares the service contracts consumed by the HTTP layer and the
// Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results into HTTP
// responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/linkedin"
	"github.com/postpilot/go-post-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// DraftService defines draft lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DraftService interface {
	// List returns the stored draft queue, newest first.
	List(ctx context.Context) []domain.Draft
	// Search ranks drafts against a free-text query, best match first.
	Search(ctx context.Context, query string, limit int) []domain.Draft
	// Save persists a new draft and returns it with its assigned id.
	Save(ctx context.Context, draft domain.Draft) (*domain.Draft, error)
	// Update merges a patch into the stored draft.
	Update(ctx context.Context, id string, patch domain.DraftPatch) (*domain.Draft, error)
	// Delete removes a draft, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	// Approve moves a draft to the scheduled state.
	Approve(ctx context.Context, id string) (*domain.Draft, error)
	// MarkPosted records that a draft went out without removing it.
	MarkPosted(ctx context.Context, id string) (*domain.Draft, error)
	// Publish sends the draft to LinkedIn and removes it on success.
	Publish(ctx context.Context, id, idemKey string) (string, error)
}

// GenerationService defines AI generation operations.
type GenerationService interface {
	Generate(ctx context.Context, req services.GenerateRequest) (string, error)
	Improve(ctx context.Context, content, instructions string) (string, error)
	SaveGenerated(ctx context.Context, req services.GenerateRequest, content string) (*domain.Draft, error)
	ValidateKey(ctx context.Context, apiKey string) bool
}

// SnapshotService defines GitHub snapshot operations.
type SnapshotService interface {
	Connect(ctx context.Context, username, token string) (*domain.Snapshot, error)
	Refresh(ctx context.Context) (*domain.Snapshot, error)
	Disconnect(ctx context.Context) error
	Snapshot(ctx context.Context) *domain.Snapshot
	Connected(ctx context.Context) bool
	RepoCommits(ctx context.Context, repoName string, limit int) ([]domain.CommitRef, error)
}

// SettingsService exposes the settings record.
type SettingsService interface {
	Get(ctx context.Context) domain.Settings
	Save(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)
}

// BundleService exposes export, import, and wipe of the whole store.
type BundleService interface {
	Export(ctx context.Context) domain.ExportBundle
	Import(ctx context.Context, bundle domain.ExportBundle) error
	Clear(ctx context.Context) error
}

// PublishReceipts records successful publishes for idempotent replay of the
// publish proxy.
type PublishReceipts interface {
	Get(ctx context.Context, authorID, key string, now time.Time) (*domain.PublishReceipt, error)
	Create(ctx context.Context, authorID, key, postID string, status int, ttl time.Duration) (*domain.PublishReceipt, error)
}

// GitHubExchanger trades a GitHub authorization code for an access token.
type GitHubExchanger interface {
	ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error)
}

// LinkedInAPI is the LinkedIn surface the OAuth and publish endpoints need.
type LinkedInAPI interface {
	ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*linkedin.Token, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*linkedin.UserInfo, error)
	Publish(ctx context.Context, accessToken, personID, text string) (string, error)
}

// OAuthConfig carries the provider app credentials and the frontend path the
// callbacks redirect back to.
type OAuthConfig struct {
	GitHubClientID       string
	GitHubClientSecret   string
	LinkedInClientID     string
	LinkedInClientSecret string
	// FrontendRedirectPath is where callbacks land, e.g. "/github".
	FrontendRedirectPath string
}

// Deps bundles everything the HTTP layer depends on.
type Deps struct {
	Drafts   DraftService
	Gen      GenerationService
	Snap     SnapshotService
	Settings SettingsService
	Bundle   BundleService
	Receipts PublishReceipts
	GitHub   GitHubExchanger
	LinkedIn LinkedInAPI
	OAuth    OAuthConfig
	// ReceiptTTL bounds publish receipt replays on the proxy endpoint.
	ReceiptTTL time.Duration
}

// Handlers groups the HTTP endpoints for drafts, settings, the GitHub
// snapshot, generation, OAuth callbacks, and the publish proxy. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	drafts   DraftService
	gen      GenerationService
	snap     SnapshotService
	settings SettingsService
	bundle   BundleService
	receipts PublishReceipts
	github   GitHubExchanger
	linkedin LinkedInAPI
	oauth    OAuthConfig

	receiptTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(d Deps) *Handlers {
	ttl := d.ReceiptTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	redirect := d.OAuth.FrontendRedirectPath
	if redirect == "" {
		redirect = "/github"
	}
	d.OAuth.FrontendRedirectPath = redirect
	return &Handlers{
		drafts:     d.Drafts,
		gen:        d.Gen,
		snap:       d.Snap,
		settings:   d.Settings,
		bundle:     d.Bundle,
		receipts:   d.Receipts,
		github:     d.GitHub,
		linkedin:   d.LinkedIn,
		oauth:      d.OAuth,
		receiptTTL: ttl,
	}
}

// knownServiceErrors lists the sentinels failService maps to specific
// statuses. Errors outside this set are treated as upstream/provider failures
// by callers that talk to external services.
var knownServiceErrors = []error{
	services.ErrDraftNotFound,
	services.ErrEmptyContent,
	services.ErrInvalidSource,
	services.ErrInvalidTransition,
	services.ErrMissingInput,
	services.ErrNoAPIKey,
	services.ErrNotConnected,
	services.ErrNoLinkedInAccount,
	services.ErrGenerationInFlight,
	services.ErrPublishInFlight,
}

// isServiceError reports whether err is one of the service-layer sentinels.
func isServiceError(err error) bool {
	for _, known := range knownServiceErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// failService maps well-known service errors to HTTP responses and falls back
// to a 500 for everything else.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrInvalidSource),
		errors.Is(err, services.ErrMissingInput):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrGenerationInFlight),
		errors.Is(err, services.ErrPublishInFlight):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrNoAPIKey):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrNotConnected):
		fail(c, http.StatusBadRequest, ErrCodeNotConnected, err.Error())
	case errors.Is(err, services.ErrNoLinkedInAccount):
		fail(c, http.StatusBadRequest, ErrCodeNotConnected, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
