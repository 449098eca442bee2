package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/response"
)

type subjectRanker interface {
	SubjectLeaderboard(ctx context.Context, subjectID string) ([]models.StudentSubjectGrade, bool, error)
	TopPerformers(ctx context.Context, limit int) ([]models.StudentOverallStanding, bool, error)
}

// LeaderboardHandler exposes subject ranking endpoints.
type LeaderboardHandler struct {
	leaderboard subjectRanker
}

// NewLeaderboardHandler constructs handler.
func NewLeaderboardHandler(leaderboard subjectRanker) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// SubjectLeaderboard godoc
// @Summary Ranked standings for one subject
// @Tags Leaderboard
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /leaderboard/subjects/{id} [get]
func (h *LeaderboardHandler) SubjectLeaderboard(c *gin.Context) {
	standings, cached, err := h.leaderboard.SubjectLeaderboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, standings, nil, map[string]interface{}{"cache_hit": cached})
}

// TopPerformers godoc
// @Summary Best overall standings across all subjects
// @Tags Leaderboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows" default(10)
// @Success 200 {object} response.Envelope
// @Router /leaderboard/top [get]
func (h *LeaderboardHandler) TopPerformers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	standings, cached, err := h.leaderboard.TopPerformers(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, standings, nil, map[string]interface{}{"cache_hit": cached})
}
