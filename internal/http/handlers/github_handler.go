// GitHub snapshot HTTP handlers.
//
// The cached snapshot is the sole "connected" signal: GET returns it (404 when
// none is stored), POST /connect fetches and caches a fresh one, POST /refresh
// re-fetches with the stored credentials, and DELETE drops the cache along
// with the stored GitHub credentials.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/utils"
)

// ConnectGitHubRequest is the JSON payload for connecting an account.
type ConnectGitHubRequest struct {
	Username string `json:"username" binding:"required"`
	// Token raises the API rate limit and unlocks private data. Optional.
	Token string `json:"token"`
}

// SnapshotStatusResponse reports the presence-only connected signal.
type SnapshotStatusResponse struct {
	Connected bool `json:"connected"`
}

// GetSnapshot godoc
// @ID      getSnapshot
// @Summary Return the cached GitHub snapshot
// @Tags    GitHub
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Failure 404 {object} handlers.ErrorResponse "No account connected"
// @Router  /github/snapshot [get]
func (h *Handlers) GetSnapshot(c *gin.Context) {
	snap := h.snap.Snapshot(c.Request.Context())
	if snap == nil {
		fail(c, http.StatusNotFound, ErrCodeNotConnected, "github account not connected")
		return
	}
	ok(c, http.StatusOK, snap)
}

// GitHubStatus godoc
// @ID      githubStatus
// @Summary Report whether a GitHub account is connected
// @Tags    GitHub
// @Produce json
// @Success 200 {object} handlers.SnapshotStatusResponse
// @Router  /github/status [get]
func (h *Handlers) GitHubStatus(c *gin.Context) {
	ok(c, http.StatusOK, SnapshotStatusResponse{Connected: h.snap.Connected(c.Request.Context())})
}

// ConnectGitHub godoc
// @ID      connectGitHub
// @Summary Fetch and cache profile, repositories, and weekly activity
// @Tags    GitHub
// @Accept  json
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Failure 400 {object} handlers.ErrorResponse "Bad request"
// @Failure 502 {object} handlers.ErrorResponse "GitHub fetch failed"
// @Router  /github/connect [post]
func (h *Handlers) ConnectGitHub(c *gin.Context) {
	var req ConnectGitHubRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username required")
		return
	}

	snap, err := h.snap.Connect(c.Request.Context(), req.Username, req.Token)
	if err != nil {
		if isServiceError(err) {
			failService(c, err)
			return
		}
		fail(c, http.StatusBadGateway, ErrCodeConnectFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, snap)
}

// RefreshGitHub godoc
// @ID      refreshGitHub
// @Summary Re-fetch the snapshot with the stored credentials
// @Tags    GitHub
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Failure 400 {object} handlers.ErrorResponse "No account connected"
// @Router  /github/refresh [post]
func (h *Handlers) RefreshGitHub(c *gin.Context) {
	snap, err := h.snap.Refresh(c.Request.Context())
	if err != nil {
		if isServiceError(err) {
			failService(c, err)
			return
		}
		fail(c, http.StatusBadGateway, ErrCodeConnectFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, snap)
}

// DisconnectGitHub godoc
// @ID      disconnectGitHub
// @Summary Drop the snapshot and erase stored GitHub credentials
// @Tags    GitHub
// @Success 204 {string} string "No Content"
// @Router  /github [delete]
func (h *Handlers) DisconnectGitHub(c *gin.Context) {
	if err := h.snap.Disconnect(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// RepoCommits godoc
// @ID      repoCommits
// @Summary Recent commits for one of the connected account's repositories
// @Tags    GitHub
// @Produce json
// @Success 200 {array} domain.CommitRef
// @Failure 400 {object} handlers.ErrorResponse "No account connected"
// @Param   limit query int false "Max commits to return (1-100)"
// @Router  /github/repos/{name}/commits [get]
func (h *Handlers) RepoCommits(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	commits, err := h.snap.RepoCommits(c.Request.Context(), c.Param("name"), limit)
	if err != nil {
		if isServiceError(err) {
			failService(c, err)
			return
		}
		fail(c, http.StatusBadGateway, ErrCodeConnectFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, commits)
}
