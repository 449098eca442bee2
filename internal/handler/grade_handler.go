package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/internal/service"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
	"github.com/acadhub/gradebook-api/pkg/response"
)

type studentResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// GradeHandler exposes the computed grade views.
type GradeHandler struct {
	gradebook *service.GradebookService
	students  studentResolver
}

// NewGradeHandler constructs handler.
func NewGradeHandler(gradebook *service.GradebookService, students studentResolver) *GradeHandler {
	return &GradeHandler{gradebook: gradebook, students: students}
}

// StudentGrades godoc
// @Summary Computed per-subject grades for a student
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/grades [get]
func (h *GradeHandler) StudentGrades(c *gin.Context) {
	views, err := h.gradebook.StudentGrades(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// MyGrades godoc
// @Summary Computed per-subject grades for the authenticated student
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me/grades [get]
func (h *GradeHandler) MyGrades(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	student, err := h.students.FindByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no student profile linked to this account"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student"))
		return
	}
	views, err := h.gradebook.StudentGrades(c.Request.Context(), student.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}
