// Settings HTTP handlers.
//
// Settings are a singleton record; GET returns the stored values merged over
// defaults, PUT merges a partial patch into the stored record (absent fields
// keep their prior values).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// GetSettings godoc
// @ID      getSettings
// @Summary Read the stored settings (merged over defaults)
// @Tags    Settings
// @Produce json
// @Success 200 {object} domain.Settings
// @Router  /settings [get]
func (h *Handlers) GetSettings(c *gin.Context) {
	ok(c, http.StatusOK, h.settings.Get(c.Request.Context()))
}

// SaveSettings godoc
// @ID      saveSettings
// @Summary Merge a partial settings patch into the stored record
// @Tags    Settings
// @Accept  json
// @Produce json
// @Success 200 {object} domain.Settings
// @Failure 400 {object} handlers.ErrorResponse "Bad request"
// @Router  /settings [put]
func (h *Handlers) SaveSettings(c *gin.Context) {
	var patch domain.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	merged, err := h.settings.Save(c.Request.Context(), patch)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, merged)
}
