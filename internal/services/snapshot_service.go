// Package services – SnapshotService
//
// This file implements SnapshotService, which manages the cached GitHub
// snapshot: connecting an account (profile + repositories + weekly activity),
// disconnecting (clearing the cache and stored credentials), and the
// presence-only connected signal. The snapshot has no TTL; staleness is only
// resolved by an explicit refresh.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/postpilot/go-post-backend/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GitHubAPI is the GitHub surface SnapshotService depends on.
type GitHubAPI interface {
	FetchProfile(ctx context.Context, username, token string) (*domain.Profile, error)
	FetchRepos(ctx context.Context, username, token string, perPage int) ([]domain.Repo, error)
	FetchRepoCommits(ctx context.Context, username, repoName, token string, perPage int) ([]domain.CommitRef, error)
	WeeklyActivitySummary(ctx context.Context, username string) (*domain.ActivitySummary, error)
}

// SnapshotStore defines the repository contract required by SnapshotService.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, db *gorm.DB) *domain.Snapshot
	SaveSnapshot(ctx context.Context, db *gorm.DB, snap domain.Snapshot) error
	ClearSnapshot(ctx context.Context, db *gorm.DB) error
	GetSettings(ctx context.Context, db *gorm.DB) domain.Settings
	SaveSettings(ctx context.Context, db *gorm.DB, patch domain.SettingsPatch) (domain.Settings, error)
}

// SnapshotService coordinates GitHub data caching.
type SnapshotService struct {
	DB     *gorm.DB
	Store  SnapshotStore
	GitHub GitHubAPI

	// RepoPageSize caps how many repositories a connect fetches.
	RepoPageSize int
}

// NewSnapshotService constructs a SnapshotService with defaults.
func NewSnapshotService(db *gorm.DB, store SnapshotStore, gh GitHubAPI) *SnapshotService {
	return &SnapshotService{DB: db, Store: store, GitHub: gh, RepoPageSize: 30}
}

// Connect fetches the account's profile, repositories, and weekly activity,
// caches them as the new snapshot, and stores the credentials in settings.
// Any fetch failure aborts the connect without touching the stored snapshot.
func (s *SnapshotService) Connect(ctx context.Context, username, token string) (*domain.Snapshot, error) {
	tr := otel.Tracer("services/SnapshotService")
	ctx, span := tr.Start(ctx, "Connect",
		trace.WithAttributes(attribute.String("github.username", username)),
	)
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrNotConnected
	}

	profile, err := s.GitHub.FetchProfile(ctx, username, token)
	if err != nil {
		return nil, err
	}
	repos, err := s.GitHub.FetchRepos(ctx, username, token, s.pageSize())
	if err != nil {
		return nil, err
	}
	summary, err := s.GitHub.WeeklyActivitySummary(ctx, username)
	if err != nil {
		return nil, err
	}

	snap := domain.Snapshot{
		Profile: *profile,
		Repos:   repos,
		Summary: *summary,
	}
	if err := s.Store.SaveSnapshot(ctx, s.DB, snap); err != nil {
		return nil, err
	}
	if _, err := s.Store.SaveSettings(ctx, s.DB, domain.SettingsPatch{
		GitHubUsername: &username,
		GitHubToken:    &token,
	}); err != nil {
		return nil, err
	}
	return s.Store.GetSnapshot(ctx, s.DB), nil
}

// Refresh re-fetches the snapshot using the stored credentials.
func (s *SnapshotService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	settings := s.Store.GetSettings(ctx, s.DB)
	if settings.GitHubUsername == "" {
		return nil, ErrNotConnected
	}
	return s.Connect(ctx, settings.GitHubUsername, settings.GitHubToken)
}

// Disconnect drops the cached snapshot and erases the stored GitHub
// credentials. Disconnecting when not connected is a no-op.
func (s *SnapshotService) Disconnect(ctx context.Context) error {
	tr := otel.Tracer("services/SnapshotService")
	ctx, span := tr.Start(ctx, "Disconnect")
	defer span.End()

	return s.Store.ClearSnapshot(ctx, s.DB)
}

// Snapshot returns the cached snapshot, or nil when none is stored.
func (s *SnapshotService) Snapshot(ctx context.Context) *domain.Snapshot {
	return s.Store.GetSnapshot(ctx, s.DB)
}

// Connected reports whether a snapshot is cached. Presence is the sole
// signal; age is not considered.
func (s *SnapshotService) Connected(ctx context.Context) bool {
	return s.Store.GetSnapshot(ctx, s.DB) != nil
}

// RepoCommits returns recent commits for one of the connected account's
// repositories.
func (s *SnapshotService) RepoCommits(ctx context.Context, repoName string, limit int) ([]domain.CommitRef, error) {
	tr := otel.Tracer("services/SnapshotService")
	ctx, span := tr.Start(ctx, "RepoCommits",
		trace.WithAttributes(attribute.String("github.repo", repoName)),
	)
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = s.pageSize()
	}
	settings := s.Store.GetSettings(ctx, s.DB)
	if settings.GitHubUsername == "" {
		return nil, ErrNotConnected
	}
	return s.GitHub.FetchRepoCommits(ctx, settings.GitHubUsername, repoName, settings.GitHubToken, limit)
}

func (s *SnapshotService) pageSize() int {
	if s.RepoPageSize > 0 {
		return s.RepoPageSize
	}
	return 30
}
