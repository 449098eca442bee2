package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Column layout for the A4 portrait gradebook table. The student column gets
// the bulk of the width; numeric columns are right-aligned.
const (
	studentColWidth = 85.0
	numericColWidth = 35.0
	headerRowHeight = 8.0
	bodyRowHeight   = 7.0
)

// PDFExporter renders a class gradebook as a one-table PDF document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the gradebook PDF: title, class-average line, then the
// student standings table.
func (e *PDFExporter) Render(table GradebookTable) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, table.Title, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Class average: %s", formatScore(table.ClassAverage)), "", 1, "C", false, 0, "")
	if !table.GeneratedAt.IsZero() {
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", table.GeneratedAt.Format("2006-01-02")), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(studentColWidth, headerRowHeight, gradebookColumns[0], "1", 0, "L", false, 0, "")
	for _, column := range gradebookColumns[1:] {
		pdf.CellFormat(numericColWidth, headerRowHeight, column, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range table.Rows {
		pdf.CellFormat(studentColWidth, bodyRowHeight, row.Student, "1", 0, "L", false, 0, "")
		pdf.CellFormat(numericColWidth, bodyRowHeight, formatScore(row.Percentage), "1", 0, "R", false, 0, "")
		pdf.CellFormat(numericColWidth, bodyRowHeight, formatScore(row.GPA), "1", 0, "R", false, 0, "")
		pdf.CellFormat(numericColWidth, bodyRowHeight, formatRank(row.Rank), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render gradebook pdf: %w", err)
	}
	return buf.Bytes(), nil
}
