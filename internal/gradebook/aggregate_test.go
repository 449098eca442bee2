package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassAverageCountsUngradedStudents(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}
	entries := []Entry{scoreEntry("stu-1", "quiz", 9, 10)}

	// stu-2 is on the roster with no entries and drags the average down.
	average := calc.ClassAverage([]string{"stu-1", "stu-2"}, entries, components)
	assert.Equal(t, 45.0, average)
}

func TestClassAverageEmptyRoster(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	assert.Equal(t, 0.0, calc.ClassAverage(nil, nil, nil))
}

func TestClassAverageFromEntriesGroupsByStudent(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{
		{ComponentID: "quiz", Weight: 40},
		{ComponentID: "exam", Weight: 60},
	}
	entries := []Entry{
		scoreEntry("stu-1", "quiz", 8, 10),
		scoreEntry("stu-1", "exam", 45, 50),
		scoreEntry("stu-2", "quiz", 10, 10),
		scoreEntry("stu-2", "exam", 50, 50),
	}

	// stu-1: 86.0, stu-2: 100.0.
	assert.Equal(t, 93.0, calc.ClassAverageFromEntries(entries, components))
}
