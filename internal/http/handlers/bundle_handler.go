// Export/import HTTP handlers.
//
// Export snapshots the whole store into one JSON bundle; import overwrites
// each section that is present in the uploaded bundle and leaves absent
// sections untouched; clear wipes everything.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// ExportData godoc
// @ID      exportData
// @Summary Export drafts, settings, and the GitHub snapshot as one bundle
// @Tags    Data
// @Produce json
// @Success 200 {object} domain.ExportBundle
// @Router  /export [get]
func (h *Handlers) ExportData(c *gin.Context) {
	bundle := h.bundle.Export(c.Request.Context())
	c.Header("Content-Disposition", `attachment; filename="postpilot-backup.json"`)
	ok(c, http.StatusOK, bundle)
}

// ImportData godoc
// @ID      importData
// @Summary Import a bundle; absent sections keep their stored values
// @Tags    Data
// @Accept  json
// @Success 204 {string} string "No Content"
// @Failure 400 {object} handlers.ErrorResponse "Malformed bundle"
// @Router  /import [post]
func (h *Handlers) ImportData(c *gin.Context) {
	var bundle domain.ExportBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid bundle JSON")
		return
	}

	if err := h.bundle.Import(c.Request.Context(), bundle); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeImportFailed, err.Error())
		return
	}
	noContent(c)
}

// ClearData godoc
// @ID      clearData
// @Summary Wipe drafts, settings, and the snapshot
// @Tags    Data
// @Success 204 {string} string "No Content"
// @Router  /data [delete]
func (h *Handlers) ClearData(c *gin.Context) {
	if err := h.bundle.Clear(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
