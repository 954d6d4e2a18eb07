// LinkedIn OAuth callback and publish proxy.
//
// The callback exchanges the authorization code for an access token and
// enriches it with the member's OpenID profile before redirecting back to the
// frontend. The redirect_uri sent to the token endpoint is derived from the
// inbound request (scheme + host + path) because LinkedIn requires it to
// byte-match the value used on the authorize step.
//
// The publish proxy exists because the ugcPosts endpoint does not answer
// browser CORS preflights; the frontend posts here and the server forwards.
package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/http/middleware"
)

// PublishProxyRequest is the JSON payload of the publish proxy.
type PublishProxyRequest struct {
	Text     string `json:"text"`
	Token    string `json:"token"`
	AuthorID string `json:"authorId"`
}

// LinkedInCallback godoc
// @ID      linkedinCallback
// @Summary LinkedIn OAuth redirect target
// @Tags    Auth
// @Param   code query string true "Authorization code"
// @Success 302 {string} string "Redirect to the frontend"
// @Router  /linkedin/callback [get]
func (h *Handlers) LinkedInCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "No authorization code provided")
		return
	}

	ctx := c.Request.Context()
	redirectURI := callbackURI(c)

	tok, err := h.linkedin.ExchangeCode(ctx, code, h.oauth.LinkedInClientID, h.oauth.LinkedInClientSecret, redirectURI)
	if err != nil {
		h.redirectError(c, err.Error())
		return
	}

	info, err := h.linkedin.FetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		h.redirectError(c, err.Error())
		return
	}

	h.redirectFrontend(c, url.Values{
		"linkedin_token":   {tok.AccessToken},
		"linkedin_name":    {info.Name},
		"linkedin_sub":     {info.Sub},
		"linkedin_picture": {info.Picture},
	})
}

// PublishProxy godoc
// @ID      publishProxy
// @Summary Forward a share to LinkedIn on behalf of the browser
// @Tags    Auth
// @Accept  json
// @Produce json
// @Param   Idempotency-Key header string false "Replay-safe publish key"
// @Success 200 {object} handlers.PublishResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing required fields"
// @Failure 405 {object} handlers.ErrorResponse "Method not allowed"
// @Router  /linkedin/post [post]
func (h *Handlers) PublishProxy(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		fail(c, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	var req PublishProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" || req.Token == "" || req.AuthorID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "missing required fields: text, token, authorId")
		return
	}

	ctx := c.Request.Context()
	idemKey := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))

	if idemKey != "" && h.receipts != nil {
		if rec, err := h.receipts.Get(ctx, req.AuthorID, idemKey, time.Now().UTC()); err == nil {
			ok(c, http.StatusOK, PublishResponse{Success: true, PostID: rec.PostID})
			return
		}
	}

	postID, err := h.linkedin.Publish(ctx, req.Token, req.AuthorID, req.Text)
	if err != nil {
		fail(c, http.StatusBadGateway, ErrCodePublishFailed, err.Error())
		return
	}

	if idemKey != "" && h.receipts != nil {
		// Best effort: a lost receipt only costs one duplicate on retry.
		_, _ = h.receipts.Create(ctx, req.AuthorID, idemKey, postID, http.StatusOK, h.receiptTTL)
	}

	ok(c, http.StatusOK, PublishResponse{Success: true, PostID: postID})
}

// callbackURI rebuilds the absolute URL of the inbound callback request.
// Proxy headers win over the raw request so the value matches what the
// browser actually hit.
func callbackURI(c *gin.Context) string {
	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return scheme + "://" + host + c.Request.URL.Path
}
