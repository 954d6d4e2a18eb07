// GitHub OAuth callback handler.
//
// The provider sends the user back here with ?code=. The handler exchanges the
// code for an access token server-side (the client secret never reaches the
// browser) and redirects to the frontend with ?token= on success or ?error=
// on any failure. Only a missing code yields a plain 400.
package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/http/middleware"
)

// GitHubCallback godoc
// @ID      githubCallback
// @Summary GitHub OAuth redirect target
// @Tags    Auth
// @Param   code query string true "Authorization code"
// @Success 302 {string} string "Redirect to the frontend"
// @Failure 400 {string} string "No code provided"
// @Router  /auth/callback [get]
func (h *Handlers) GitHubCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "No code provided")
		return
	}

	token, err := h.github.ExchangeCode(c.Request.Context(), h.oauth.GitHubClientID, h.oauth.GitHubClientSecret, code)
	if err != nil {
		h.redirectError(c, err.Error())
		return
	}
	h.redirectFrontend(c, url.Values{"token": {token}})
}

// redirectFrontend sends the browser back to the frontend page with the given
// query parameters.
func (h *Handlers) redirectFrontend(c *gin.Context, params url.Values) {
	c.Redirect(http.StatusFound, h.oauth.FrontendRedirectPath+"?"+params.Encode())
}

// redirectError sends the browser back to the frontend with the failure
// reason. The reason is logged server-side too; tokens never appear here.
func (h *Handlers) redirectError(c *gin.Context, reason string) {
	lg := middleware.LoggerFrom(c)
	lg.Warn().Str("reason", reason).Msg("oauth callback failed")
	h.redirectFrontend(c, url.Values{"error": {reason}})
}
