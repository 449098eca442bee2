package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/gradebook-api/internal/service"
	"github.com/acadhub/gradebook-api/pkg/response"
)

// SyncHandler exposes the classroom import endpoint.
type SyncHandler struct {
	sync *service.SyncService
}

// NewSyncHandler constructs handler.
func NewSyncHandler(sync *service.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// ImportClass godoc
// @Summary Import coursework scores from the linked classroom course
// @Tags Sync
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/sync [post]
func (h *SyncHandler) ImportClass(c *gin.Context) {
	result, err := h.sync.ImportClass(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
