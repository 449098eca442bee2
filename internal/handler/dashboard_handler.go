package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/response"
)

type dashboardSummarizer interface {
	Summary(ctx context.Context, claims *models.JWTClaims) (*models.DashboardSummary, bool, error)
}

// DashboardHandler exposes the role-aware dashboard.
type DashboardHandler struct {
	dashboard dashboardSummarizer
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard dashboardSummarizer) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Role-aware dashboard summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, cached, err := h.dashboard.Summary(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{"cache_hit": cached})
}
