package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
	"github.com/acadhub/gradebook-api/pkg/export"
)

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type classSummarizer interface {
	Summary(ctx context.Context, classID string, actor *models.JWTClaims) (*models.ClassGradeSummary, error)
}

type csvRenderer interface {
	Render(table export.GradebookTable) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.GradebookTable) ([]byte, error)
}

// ReportFile is a rendered export ready to stream to the client.
type ReportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ReportService renders class gradebooks as downloadable files.
type ReportService struct {
	classes classSummarizer
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	cfg     config.ReportsConfig
}

// NewReportService constructs a ReportService.
func NewReportService(classes classSummarizer, cfg config.ReportsConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{classes: classes, csv: csv, pdf: pdf, logger: logger, cfg: cfg}
}

// ClassGradebook renders the full class standings in the requested format.
func (s *ReportService) ClassGradebook(ctx context.Context, classID string, format ReportFormat, actor *models.JWTClaims) (*ReportFile, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "reports are disabled")
	}

	summary, err := s.classes.Summary(ctx, classID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	table := export.GradebookTable{
		Title:        "Class Gradebook",
		ClassAverage: summary.ClassAverage,
		GeneratedAt:  now,
		Rows:         make([]export.GradebookRow, 0, len(summary.Students)),
	}
	for _, student := range summary.Students {
		table.Rows = append(table.Rows, export.GradebookRow{
			Student:    student.StudentName,
			Percentage: student.Percentage,
			GPA:        student.GPA,
			Rank:       student.Rank,
		})
	}

	stamp := now.Format("20060102")

	switch format {
	case ReportFormatCSV:
		payload, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ReportFile{
			Filename:    fmt.Sprintf("gradebook-%s-%s.csv", classID, stamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ReportFormatPDF:
		payload, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ReportFile{
			Filename:    fmt.Sprintf("gradebook-%s-%s.pdf", classID, stamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
}
