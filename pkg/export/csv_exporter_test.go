package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intptr(v int) *int { return &v }

func TestCSVExporterRendersStandingsAndSummary(t *testing.T) {
	table := GradebookTable{
		Title:        "Class Gradebook",
		ClassAverage: 84.375,
		GeneratedAt:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Rows: []GradebookRow{
			{Student: "Ben Reyes", Percentage: 91.5, GPA: 1.25, Rank: intptr(1)},
			{Student: "Cara Lim", Percentage: 0, GPA: 5, Rank: nil},
		},
	}

	payload, err := NewCSVExporter().Render(table)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Student,Percentage,GPA,Rank", lines[0])
	assert.Equal(t, "Ben Reyes,91.50,1.25,1", lines[1])
	assert.Equal(t, "Cara Lim,0.00,5.00,-", lines[2])
	assert.Equal(t, "Class Average,84.38,,", lines[3])
}

func TestPDFExporterProducesDocument(t *testing.T) {
	table := GradebookTable{
		Title:        "Class Gradebook",
		ClassAverage: 84.38,
		GeneratedAt:  time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Rows: []GradebookRow{
			{Student: "Ben Reyes", Percentage: 91.5, GPA: 1.25, Rank: intptr(1)},
		},
	}

	payload, err := NewPDFExporter().Render(table)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}
