package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/internal/service"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
	"github.com/acadhub/gradebook-api/pkg/response"
)

// GradebookHandler exposes grade entry and component endpoints.
type GradebookHandler struct {
	gradebook *service.GradebookService
}

// NewGradebookHandler constructs handler.
func NewGradebookHandler(gradebook *service.GradebookService) *GradebookHandler {
	return &GradebookHandler{gradebook: gradebook}
}

// ListEntries godoc
// @Summary List grade entries for a class
// @Tags Gradebook
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param student_id query string false "Filter by student"
// @Param component_id query string false "Filter by component"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/entries [get]
func (h *GradebookHandler) ListEntries(c *gin.Context) {
	entries, err := h.gradebook.ListEntries(c.Request.Context(), models.GradeEntryFilter{
		ClassID:     c.Param("id"),
		StudentID:   c.Query("student_id"),
		ComponentID: c.Query("component_id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// UpsertEntry godoc
// @Summary Record or replace one grade entry
// @Tags Gradebook
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body models.UpsertGradeEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/entries [post]
func (h *GradebookHandler) UpsertEntry(c *gin.Context) {
	var req models.UpsertGradeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.gradebook.UpsertEntry(c.Request.Context(), c.Param("id"), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// BulkUpsert godoc
// @Summary Record a batch of grade entries
// @Tags Gradebook
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body models.BulkUpsertRequest true "Batch payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/entries/bulk [post]
func (h *GradebookHandler) BulkUpsert(c *gin.Context) {
	var req models.BulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.gradebook.BulkUpsert(c.Request.Context(), c.Param("id"), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// DeleteEntry godoc
// @Summary Delete a grade entry
// @Tags Gradebook
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204
// @Router /entries/{id} [delete]
func (h *GradebookHandler) DeleteEntry(c *gin.Context) {
	if err := h.gradebook.DeleteEntry(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListComponents godoc
// @Summary List grading components for a class
// @Tags Gradebook
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/components [get]
func (h *GradebookHandler) ListComponents(c *gin.Context) {
	components, err := h.gradebook.ListComponents(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, components, nil)
}

// CreateComponent godoc
// @Summary Create a grading component
// @Tags Gradebook
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param payload body models.GradeComponentRequest true "Component payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{id}/components [post]
func (h *GradebookHandler) CreateComponent(c *gin.Context) {
	var req models.GradeComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	component, err := h.gradebook.CreateComponent(c.Request.Context(), c.Param("id"), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, component)
}

// UpdateComponent godoc
// @Summary Update a grading component
// @Tags Gradebook
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Component ID"
// @Param payload body models.GradeComponentRequest true "Component payload"
// @Success 200 {object} response.Envelope
// @Router /components/{id} [put]
func (h *GradebookHandler) UpdateComponent(c *gin.Context) {
	var req models.GradeComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	component, err := h.gradebook.UpdateComponent(c.Request.Context(), c.Param("id"), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, component, nil)
}

// DeleteComponent godoc
// @Summary Delete a grading component
// @Tags Gradebook
// @Produce json
// @Security BearerAuth
// @Param id path string true "Component ID"
// @Success 204
// @Router /components/{id} [delete]
func (h *GradebookHandler) DeleteComponent(c *gin.Context) {
	if err := h.gradebook.DeleteComponent(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
