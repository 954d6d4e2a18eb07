// Generation HTTP handlers.
//
// These endpoints orchestrate AI post generation: generate (or regenerate by
// repeating the call), improve an existing text, persist an accepted result as
// a draft, and probe an API key. Nothing is stored until /generate/save.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/services"
)

//
// DTOs
//

// GenerateRequest is the JSON payload for generating a post. Only the field
// group matching Source is consulted.
type GenerateRequest struct {
	Source domain.Source `json:"source" binding:"required"`

	// Certificate posts.
	Title   string `json:"title"`
	Issuer  string `json:"issuer"`
	Skills  string `json:"skills"`
	Context string `json:"context"`

	// GitHub activity posts.
	Repos []string `json:"repos"`
	Focus string   `json:"focus"`

	// Custom posts.
	Topic     string `json:"topic"`
	KeyPoints string `json:"keyPoints"`

	Tone domain.Tone `json:"tone"`
}

// toService converts the wire request into the service request.
func (r GenerateRequest) toService() services.GenerateRequest {
	return services.GenerateRequest{
		Source:    r.Source,
		Title:     r.Title,
		Issuer:    r.Issuer,
		Skills:    r.Skills,
		Context:   r.Context,
		RepoNames: r.Repos,
		Focus:     r.Focus,
		Topic:     r.Topic,
		KeyPoints: r.KeyPoints,
		Tone:      r.Tone,
	}
}

// GenerateResponse carries generated post text.
type GenerateResponse struct {
	Content string `json:"content"`
}

// ImproveRequest is the JSON payload for refining existing text.
type ImproveRequest struct {
	Content      string `json:"content" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
}

// SaveGeneratedRequest persists an accepted generation as a draft.
type SaveGeneratedRequest struct {
	GenerateRequest
	Content string `json:"content" binding:"required"`
}

// ValidateKeyRequest probes a Groq API key.
type ValidateKeyRequest struct {
	APIKey string `json:"apiKey" binding:"required"`
}

// ValidateKeyResponse reports whether the key was accepted.
type ValidateKeyResponse struct {
	Valid bool `json:"valid"`
}

//
// Handlers
//

// Generate godoc
// @ID      generatePost
// @Summary Generate a LinkedIn post from the given source inputs
// @Tags    Generate
// @Accept  json
// @Produce json
// @Success 200 {object} handlers.GenerateResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing inputs or API key"
// @Failure 409 {object} handlers.ErrorResponse "Generation already in progress"
// @Failure 502 {object} handlers.ErrorResponse "LLM call failed"
// @Router  /generate [post]
func (h *Handlers) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	content, err := h.gen.Generate(c.Request.Context(), req.toService())
	if err != nil {
		if isServiceError(err) {
			failService(c, err)
			return
		}
		fail(c, http.StatusBadGateway, ErrCodeGenerationFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, GenerateResponse{Content: content})
}

// Improve godoc
// @ID      improvePost
// @Summary Rewrite existing post text per the given instructions
// @Tags    Generate
// @Accept  json
// @Produce json
// @Success 200 {object} handlers.GenerateResponse
// @Failure 400 {object} handlers.ErrorResponse "Missing content or instructions"
// @Router  /generate/improve [post]
func (h *Handlers) Improve(c *gin.Context) {
	var req ImproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content and instructions required")
		return
	}

	content, err := h.gen.Improve(c.Request.Context(), req.Content, req.Instructions)
	if err != nil {
		if isServiceError(err) {
			failService(c, err)
			return
		}
		fail(c, http.StatusBadGateway, ErrCodeGenerationFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, GenerateResponse{Content: content})
}

// SaveGenerated godoc
// @ID      saveGenerated
// @Summary Persist an accepted generation as a new draft
// @Tags    Generate
// @Accept  json
// @Produce json
// @Success 201 {object} domain.Draft
// @Failure 400 {object} handlers.ErrorResponse "Bad request"
// @Router  /generate/save [post]
func (h *Handlers) SaveGenerated(c *gin.Context) {
	var req SaveGeneratedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	d, err := h.gen.SaveGenerated(c.Request.Context(), req.toService(), req.Content)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, d)
}

// ValidateKey godoc
// @ID      validateKey
// @Summary Probe whether a Groq API key is accepted
// @Tags    Generate
// @Accept  json
// @Produce json
// @Success 200 {object} handlers.ValidateKeyResponse
// @Router  /validate-key [post]
func (h *Handlers) ValidateKey(c *gin.Context) {
	var req ValidateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "apiKey required")
		return
	}
	ok(c, http.StatusOK, ValidateKeyResponse{Valid: h.gen.ValidateKey(c.Request.Context(), req.APIKey)})
}
