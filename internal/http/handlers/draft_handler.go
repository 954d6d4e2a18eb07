// Draft HTTP handlers.
//
// This file exposes REST endpoints for the draft queue:
//   - GET    /drafts                (list, newest first)
//   - POST   /drafts               (create)
//   - PATCH  /drafts/{id}          (merge update)
//   - DELETE /drafts/{id}          (idempotent delete)
//   - POST   /drafts/{id}/approve  (draft -> scheduled)
//   - POST   /drafts/{id}/posted   (mark posted)
//   - POST   /drafts/{id}/publish  (publish to LinkedIn, delete on success)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/http/middleware"
	"github.com/postpilot/go-post-backend/internal/utils"
)

//
// DTOs
//

// CreateDraftRequest is the JSON payload for creating a draft.
type CreateDraftRequest struct {
	// Title optionally sets a display title; one is derived when empty.
	Title string `json:"title"`
	// Content is the post body (required).
	Content string `json:"content" binding:"required"`
	// Source names where the draft came from: certificate, github, or custom.
	Source domain.Source `json:"source" binding:"required"`
	// Metadata freezes the generation inputs. Optional.
	Metadata domain.Metadata `json:"metadata"`
}

// ListDraftsResponse wraps the stored draft queue.
type ListDraftsResponse struct {
	Drafts []domain.Draft `json:"drafts"`
}

// PublishResponse reports a successful publish.
type PublishResponse struct {
	Success bool   `json:"success"`
	PostID  string `json:"postId"`
}

//
// Handlers
//

// ListDrafts godoc
// @ID      listDrafts
// @Summary List all drafts, newest first; with q, best matches first
// @Tags    Drafts
// @Produce json
// @Param   q     query string false "Free-text search query"
// @Param   limit query int    false "Max results when searching"
// @Success 200 {object} handlers.ListDraftsResponse
// @Router  /drafts [get]
func (h *Handlers) ListDrafts(c *gin.Context) {
	var items []domain.Draft
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		items = h.drafts.Search(c.Request.Context(), q, utils.AtoiDefault(c.Query("limit"), 0))
	} else {
		items = h.drafts.List(c.Request.Context())
	}
	if items == nil {
		items = []domain.Draft{}
	}
	ok(c, http.StatusOK, ListDraftsResponse{Drafts: items})
}

// CreateDraft godoc
// @ID      createDraft
// @Summary Save a new draft
// @Tags    Drafts
// @Accept  json
// @Produce json
// @Success 201 {object} domain.Draft
// @Failure 400 {object} handlers.ErrorResponse "Bad request"
// @Router  /drafts [post]
func (h *Handlers) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	d, err := h.drafts.Save(c.Request.Context(), domain.Draft{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Source:   req.Source,
		Metadata: req.Metadata,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}

// UpdateDraft godoc
// @ID      updateDraft
// @Summary Merge an update into a draft
// @Tags    Drafts
// @Accept  json
// @Produce json
// @Success 200 {object} domain.Draft
// @Failure 404 {object} handlers.ErrorResponse "Draft not found"
// @Failure 409 {object} handlers.ErrorResponse "Invalid status transition"
// @Router  /drafts/{id} [patch]
func (h *Handlers) UpdateDraft(c *gin.Context) {
	var patch domain.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown status")
		return
	}

	d, err := h.drafts.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// DeleteDraft godoc
// @ID      deleteDraft
// @Summary Delete a draft (idempotent)
// @Tags    Drafts
// @Success 204 {string} string "No Content"
// @Router  /drafts/{id} [delete]
func (h *Handlers) DeleteDraft(c *gin.Context) {
	if _, err := h.drafts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ApproveDraft godoc
// @ID      approveDraft
// @Summary Move a draft to the scheduled state
// @Tags    Drafts
// @Produce json
// @Success 200 {object} domain.Draft
// @Failure 404 {object} handlers.ErrorResponse "Draft not found"
// @Router  /drafts/{id}/approve [post]
func (h *Handlers) ApproveDraft(c *gin.Context) {
	d, err := h.drafts.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// MarkDraftPosted godoc
// @ID      markDraftPosted
// @Summary Mark a draft as posted without removing it
// @Tags    Drafts
// @Produce json
// @Success 200 {object} domain.Draft
// @Router  /drafts/{id}/posted [post]
func (h *Handlers) MarkDraftPosted(c *gin.Context) {
	d, err := h.drafts.MarkPosted(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// PublishDraft godoc
// @ID      publishDraft
// @Summary Publish a draft to LinkedIn and remove it from the queue
// @Tags    Drafts
// @Produce json
// @Param   Idempotency-Key header string false "Replay-safe publish key"
// @Success 200 {object} handlers.PublishResponse
// @Failure 404 {object} handlers.ErrorResponse "Draft not found"
// @Failure 409 {object} handlers.ErrorResponse "Publish already in progress"
// @Failure 502 {object} handlers.ErrorResponse "Provider rejected the post"
// @Router  /drafts/{id}/publish [post]
func (h *Handlers) PublishDraft(c *gin.Context) {
	idemKey := strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))

	postID, err := h.drafts.Publish(c.Request.Context(), c.Param("id"), idemKey)
	if err != nil {
		if isServiceError(err) {
			failService(c, err)
			return
		}
		// Anything else came back from the provider.
		fail(c, http.StatusBadGateway, ErrCodePublishFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, PublishResponse{Success: true, PostID: postID})
}
