// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, a structured HTTP logger that scrubs
// secrets and obvious PII from request metadata before emitting logs. The
// OAuth callback routes carry authorization codes and access tokens in query
// strings, so the scrubbing here is what keeps them out of the logs.
//
// Behavior:
//   - Never logs request or response bodies
//   - Masks sensitive query parameters (code, token, access_token, ...)
//   - Redacts emails, phone numbers, and UUID-like identifiers
//   - Masks sensitive headers (Authorization, Cookie, Set-Cookie, plus custom)
//   - Produces structured JSON logs via zerolog
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders lists extra HTTP header names whose values are replaced with
// "[REDACTED]". Matching is case-insensitive and merged with the built-in
// sensitive headers. MaskParams does the same for query parameter names,
// merged with the built-in OAuth parameters.
type RedactOptions struct {
	MaskHeaders []string
	MaskParams  []string
}

// builtinMaskParams are query parameters whose values are always masked.
// They cover the GitHub and LinkedIn OAuth callbacks and the frontend
// redirects that carry tokens.
var builtinMaskParams = []string{
	"code", "state", "token", "access_token", "linkedin_token", "key",
}

// RedactingLogger returns a Gin middleware that logs HTTP requests with
// sensitive values scrubbed.
//
// It logs method, path, query string, status, response size, latency, and
// request headers. Sensitive query parameters and headers are fully masked;
// remaining values pass through regex redaction for emails, phone numbers,
// and UUIDs. Level is info by default, warn for 4xx, error for 5xx.
//
// NOTE: redact UUIDs before phone numbers so the phone pattern cannot match
// the digit segments of a UUID.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	uuidRE := regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE := regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	// Digits-only phone pattern (prevents matching hex characters from UUIDs).
	phoneRE := regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)

	redact := func(s string) string {
		if s == "" {
			return s
		}
		out := s
		// Order matters: IDs, then email, then phone (phone is the loosest).
		out = uuidRE.ReplaceAllString(out, "[REDACTED:id]")
		out = emailRE.ReplaceAllString(out, "[REDACTED:email]")
		out = phoneRE.ReplaceAllString(out, "[REDACTED:phone]")
		return out
	}

	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	maskParams := make(map[string]struct{}, len(builtinMaskParams)+len(opts.MaskParams))
	for _, p := range builtinMaskParams {
		maskParams[p] = struct{}{}
	}
	for _, p := range opts.MaskParams {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			maskParams[p] = struct{}{}
		}
	}

	// maskQuery replaces the values of sensitive parameters with [REDACTED]
	// and applies regex redaction to everything else. Masking works on the
	// raw string so the remaining query keeps its original form.
	maskQuery := func(raw string) string {
		if raw == "" {
			return raw
		}
		parts := strings.Split(raw, "&")
		for i, part := range parts {
			name := part
			if eq := strings.IndexByte(part, '='); eq >= 0 {
				name = part[:eq]
			}
			if unescaped, err := url.QueryUnescape(name); err == nil {
				name = unescaped
			}
			if _, ok := maskParams[strings.ToLower(name)]; ok {
				parts[i] = name + "=[REDACTED]"
				continue
			}
			parts[i] = redact(part)
		}
		return strings.Join(parts, "&")
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := maskQuery(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			keyLower := strings.ToLower(k)
			val := strings.Join(vv, ", ")
			if _, ok := maskHeaders[keyLower]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redact(val)
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		size := c.Writer.Size()

		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", size).
			Dur("latency", latency).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
