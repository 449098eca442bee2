package export

import (
	"fmt"
	"time"
)

// GradebookRow is one student line of a rendered class gradebook.
type GradebookRow struct {
	Student    string
	Percentage float64
	GPA        float64
	Rank       *int
}

// GradebookTable is a class gradebook prepared for export. Unranked students
// (no recorded work) render with a dash in the rank column.
type GradebookTable struct {
	Title        string
	ClassAverage float64
	GeneratedAt  time.Time
	Rows         []GradebookRow
}

var gradebookColumns = []string{"Student", "Percentage", "GPA", "Rank"}

func formatRank(rank *int) string {
	if rank == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *rank)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
