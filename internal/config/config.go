// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, database paths, OAuth application credentials, provider endpoints,
// rate limiting, and observability settings.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/postpilot/go-post-backend/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-post-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// OAuthConfig holds the GitHub and LinkedIn application credentials used by
// the OAuth callback handlers. Empty values disable the respective flow; the
// API still serves everything that does not need the provider.
type OAuthConfig struct {
	GitHubClientID       string // GITHUB_CLIENT_ID
	GitHubClientSecret   string // GITHUB_CLIENT_SECRET
	LinkedInClientID     string // LINKEDIN_CLIENT_ID
	LinkedInClientSecret string // LINKEDIN_CLIENT_SECRET
	// FrontendRedirectPath is where callbacks send the browser after an
	// exchange, with tokens or errors appended as query parameters.
	FrontendRedirectPath string // FRONTEND_REDIRECT_PATH
}

// ProvidersConfig carries base URL overrides for upstream APIs. The defaults
// point at the real services; tests and local mocks override them.
type ProvidersConfig struct {
	GitHubBaseURL    string // GITHUB_API_BASE_URL
	GitHubOAuthURL   string // GITHUB_OAUTH_BASE_URL
	GroqBaseURL      string // GROQ_API_BASE_URL
	GroqModel        string // GROQ_MODEL
	LinkedInBaseURL  string // LINKEDIN_API_BASE_URL
	LinkedInOAuthURL string // LINKEDIN_OAUTH_BASE_URL
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes

	// App
	DBPath string // SQLite path

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Publish dedupe
	ReceiptTTL time.Duration // how long a publish Idempotency-Key stays valid

	// Upstreams
	OAuth     OAuthConfig
	Providers ProvidersConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "postpilot.db"),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Publish dedupe
		ReceiptTTL: getdur("RECEIPT_TTL", 24*time.Hour),

		// Upstreams
		OAuth: OAuthConfig{
			GitHubClientID:       getenv("GITHUB_CLIENT_ID", ""),
			GitHubClientSecret:   getenv("GITHUB_CLIENT_SECRET", ""),
			LinkedInClientID:     getenv("LINKEDIN_CLIENT_ID", ""),
			LinkedInClientSecret: getenv("LINKEDIN_CLIENT_SECRET", ""),
			FrontendRedirectPath: getenv("FRONTEND_REDIRECT_PATH", "/github"),
		},
		Providers: ProvidersConfig{
			GitHubBaseURL:    getenv("GITHUB_API_BASE_URL", "https://api.github.com"),
			GitHubOAuthURL:   getenv("GITHUB_OAUTH_BASE_URL", "https://github.com"),
			GroqBaseURL:      getenv("GROQ_API_BASE_URL", "https://api.groq.com/openai/v1"),
			GroqModel:        getenv("GROQ_MODEL", "openai/gpt-oss-120b"),
			LinkedInBaseURL:  getenv("LINKEDIN_API_BASE_URL", "https://api.linkedin.com"),
			LinkedInOAuthURL: getenv("LINKEDIN_OAUTH_BASE_URL", "https://www.linkedin.com"),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled: getbool("OTEL_ENABLED", false),
			// The traces-specific endpoint wins over the generic one, per the
			// OTLP exporter env var convention.
			Endpoint: sysutil.FirstNonEmpty(
				os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
				os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
				"localhost:4317",
			),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-post-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.OAuth.FrontendRedirectPath = normalizeBasePath(cfg.OAuth.FrontendRedirectPath)

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.ReceiptTTL <= 0 {
		return cfg, errors.New("RECEIPT_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if sysutil.IsTruthy(v) {
			return true
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
