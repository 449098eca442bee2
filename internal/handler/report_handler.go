package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/acadhub/gradebook-api/internal/service"
	"github.com/acadhub/gradebook-api/pkg/response"
)

// ReportHandler streams rendered gradebook exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ClassGradebook godoc
// @Summary Download the class gradebook as CSV or PDF
// @Tags Reports
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /classes/{id}/report [get]
func (h *ReportHandler) ClassGradebook(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.reports.ClassGradebook(c.Request.Context(), c.Param("id"), format, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Payload)
}
