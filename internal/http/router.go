// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/postpilot/go-post-backend/internal/config"
	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/github"
	"github.com/postpilot/go-post-backend/internal/groq"
	"github.com/postpilot/go-post-backend/internal/http/handlers"
	"github.com/postpilot/go-post-backend/internal/http/middleware"
	"github.com/postpilot/go-post-backend/internal/linkedin"
	"github.com/postpilot/go-post-backend/internal/repo"
	"github.com/postpilot/go-post-backend/internal/services"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// storeShim adapts the repository free functions to the store interfaces the
// services expect. It keeps services decoupled from the concrete repo package
// while reusing the existing functions. One shim satisfies every store
// contract since they all share the (ctx, db, ...) shape.
type storeShim struct{}

// ListDrafts proxies repo.ListDrafts.
func (storeShim) ListDrafts(ctx context.Context, db *gorm.DB) []domain.Draft {
	return repo.ListDrafts(ctx, db)
}

// SaveDraft proxies repo.SaveDraft.
func (storeShim) SaveDraft(ctx context.Context, db *gorm.DB, draft domain.Draft) (*domain.Draft, error) {
	return repo.SaveDraft(ctx, db, draft)
}

// UpdateDraft proxies repo.UpdateDraft.
func (storeShim) UpdateDraft(ctx context.Context, db *gorm.DB, id string, patch domain.DraftPatch) (*domain.Draft, error) {
	return repo.UpdateDraft(ctx, db, id, patch)
}

// DeleteDraft proxies repo.DeleteDraft.
func (storeShim) DeleteDraft(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return repo.DeleteDraft(ctx, db, id)
}

// GetSettings proxies repo.GetSettings.
func (storeShim) GetSettings(ctx context.Context, db *gorm.DB) domain.Settings {
	return repo.GetSettings(ctx, db)
}

// SaveSettings proxies repo.SaveSettings.
func (storeShim) SaveSettings(ctx context.Context, db *gorm.DB, patch domain.SettingsPatch) (domain.Settings, error) {
	return repo.SaveSettings(ctx, db, patch)
}

// GetSnapshot proxies repo.GetSnapshot.
func (storeShim) GetSnapshot(ctx context.Context, db *gorm.DB) *domain.Snapshot {
	return repo.GetSnapshot(ctx, db)
}

// SaveSnapshot proxies repo.SaveSnapshot.
func (storeShim) SaveSnapshot(ctx context.Context, db *gorm.DB, snap domain.Snapshot) error {
	return repo.SaveSnapshot(ctx, db, snap)
}

// ClearSnapshot proxies repo.ClearSnapshot.
func (storeShim) ClearSnapshot(ctx context.Context, db *gorm.DB) error {
	return repo.ClearSnapshot(ctx, db)
}

// GetPublishReceipt proxies repo.GetPublishReceipt.
func (storeShim) GetPublishReceipt(ctx context.Context, db *gorm.DB, authorID, key string, now time.Time) (*domain.PublishReceipt, error) {
	return repo.GetPublishReceipt(ctx, db, authorID, key, now)
}

// CreatePublishReceipt proxies repo.CreatePublishReceipt.
func (storeShim) CreatePublishReceipt(ctx context.Context, db *gorm.DB, authorID, key, postID string, status int, ttl time.Duration) (*domain.PublishReceipt, error) {
	return repo.CreatePublishReceipt(ctx, db, authorID, key, postID, status, ttl)
}

// ExportAll proxies repo.ExportAll.
func (storeShim) ExportAll(ctx context.Context, db *gorm.DB) domain.ExportBundle {
	return repo.ExportAll(ctx, db)
}

// ImportAll proxies repo.ImportAll.
func (storeShim) ImportAll(ctx context.Context, db *gorm.DB, bundle domain.ExportBundle) error {
	return repo.ImportAll(ctx, db, bundle)
}

// ClearAll proxies repo.ClearAll.
func (storeShim) ClearAll(ctx context.Context, db *gorm.DB) error {
	return repo.ClearAll(ctx, db)
}

// receiptShim binds the publish receipt repo functions to a db handle for the
// handlers.PublishReceipts contract used by the publish proxy.
type receiptShim struct {
	db  *gorm.DB
	ttl time.Duration
}

func (r receiptShim) Get(ctx context.Context, authorID, key string, now time.Time) (*domain.PublishReceipt, error) {
	return repo.GetPublishReceipt(ctx, r.db, authorID, key, now)
}

func (r receiptShim) Create(ctx context.Context, authorID, key, postID string, status int, ttl time.Duration) (*domain.PublishReceipt, error) {
	if ttl <= 0 {
		ttl = r.ttl
	}
	return repo.CreatePublishReceipt(ctx, r.db, authorID, key, postID, status, ttl)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, the OAuth
// callbacks and publish proxy under /api, and the versioned API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with secret/PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression (export payloads shrink well)
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-Groq-Key", // generation requests may carry the key in a header
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB covers the largest import bundles)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses; exports are highly repetitive JSON
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, key string, now time.Time) (bool, error) {
			exists, err := repo.HasPublishReceipt(ctx, db, key, now)
			if err != nil {
				return false, nil
			}
			return exists, nil
		},
	))

	// 9) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Upstream clients, base URLs overridable for tests and local mocks
	gh := github.NewClient()
	gh.APIBaseURL = cfg.Providers.GitHubBaseURL
	gh.OAuthBaseURL = cfg.Providers.GitHubOAuthURL

	llm := groq.NewClient()
	llm.BaseURL = cfg.Providers.GroqBaseURL
	llm.Model = cfg.Providers.GroqModel

	li := linkedin.NewClient()
	li.APIBaseURL = cfg.Providers.LinkedInBaseURL
	li.OAuthBaseURL = cfg.Providers.LinkedInOAuthURL

	// Dependency injection: services ← repo/db/clients
	store := storeShim{}
	draftSvc := services.NewDraftService(db, store, li)
	draftSvc.ReceiptTTL = cfg.ReceiptTTL
	draftSvc.TitleLocale = language.English

	genSvc := &services.GenerationService{
		DB:     db,
		Store:  store,
		LLM:    llm,
		Drafts: draftSvc,
	}
	snapSvc := services.NewSnapshotService(db, store, gh)
	settingsSvc := services.NewSettingsService(db, store)
	bundleSvc := services.NewBundleService(db, store)

	h := handlers.New(handlers.Deps{
		Drafts:   draftSvc,
		Gen:      genSvc,
		Snap:     snapSvc,
		Settings: settingsSvc,
		Bundle:   bundleSvc,
		Receipts: receiptShim{db: db, ttl: cfg.ReceiptTTL},
		GitHub:   gh,
		LinkedIn: li,
		OAuth: handlers.OAuthConfig{
			GitHubClientID:       cfg.OAuth.GitHubClientID,
			GitHubClientSecret:   cfg.OAuth.GitHubClientSecret,
			LinkedInClientID:     cfg.OAuth.LinkedInClientID,
			LinkedInClientSecret: cfg.OAuth.LinkedInClientSecret,
			FrontendRedirectPath: cfg.OAuth.FrontendRedirectPath,
		},
		ReceiptTTL: cfg.ReceiptTTL,
	})

	// OAuth callbacks and the publish proxy live outside the versioned API;
	// the provider redirect URIs and the frontend pin these paths.
	r.GET("/api/auth/callback", h.GitHubCallback)
	r.GET("/api/linkedin/callback", h.LinkedInCallback)
	r.POST("/api/linkedin/post", h.PublishProxy)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Drafts
		api.GET("/drafts", h.ListDrafts)
		api.POST("/drafts", h.CreateDraft)
		api.PATCH("/drafts/:id", h.UpdateDraft)
		api.DELETE("/drafts/:id", h.DeleteDraft)
		api.POST("/drafts/:id/approve", h.ApproveDraft)
		api.POST("/drafts/:id/posted", h.MarkDraftPosted)
		api.POST("/drafts/:id/publish", h.PublishDraft)

		// Settings
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.SaveSettings)

		// GitHub snapshot
		api.GET("/github/snapshot", h.GetSnapshot)
		api.GET("/github/status", h.GitHubStatus)
		api.POST("/github/connect", h.ConnectGitHub)
		api.POST("/github/refresh", h.RefreshGitHub)
		api.DELETE("/github", h.DisconnectGitHub)
		api.GET("/github/repos/:name/commits", h.RepoCommits)

		// Generation
		api.POST("/generate", h.Generate)
		api.POST("/generate/improve", h.Improve)
		api.POST("/generate/save", h.SaveGenerated)
		api.POST("/validate-key", h.ValidateKey)

		// Data portability
		api.GET("/export", h.ExportData)
		api.POST("/import", h.ImportData)
		api.DELETE("/data", h.ClearData)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
