package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders a class gradebook as CSV, one student per row with a
// trailing class-average summary line.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the gradebook.
func (e *CSVExporter) Render(table GradebookTable) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	if err := writer.Write(gradebookColumns); err != nil {
		return nil, fmt.Errorf("write gradebook header: %w", err)
	}
	for _, row := range table.Rows {
		record := []string{
			row.Student,
			formatScore(row.Percentage),
			formatScore(row.GPA),
			formatRank(row.Rank),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write gradebook row: %w", err)
		}
	}
	summary := []string{"Class Average", formatScore(table.ClassAverage), "", ""}
	if err := writer.Write(summary); err != nil {
		return nil, fmt.Errorf("write gradebook summary: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush gradebook csv: %w", err)
	}
	return buf.Bytes(), nil
}
