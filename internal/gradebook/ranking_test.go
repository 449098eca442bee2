package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectGradeZeroDataDefaults(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}

	grade := calc.SubjectGrade("stu-1", "sub-1", nil, components)
	assert.Equal(t, 0.0, grade.Percentage)
	assert.Equal(t, 5.0, grade.GPA)
	assert.Equal(t, 0, grade.Rank)
}

func TestSubjectRankingsExcludesStudentsWithoutWork(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}
	entries := []Entry{
		scoreEntry("stu-1", "quiz", 9, 10),
		scoreEntry("stu-2", "quiz", 7, 10),
		scoreEntry("stu-3", "quiz", 8, 10),
	}
	cohort := []string{"stu-1", "stu-2", "stu-3", "stu-4", "stu-5"}

	rankings := calc.SubjectRankings("sub-1", cohort, entries, components)
	require.Len(t, rankings, 3)
	for i, grade := range rankings {
		assert.Equal(t, i+1, grade.Rank)
	}
	// Ascending GPA: the 90% student leads, then 80%, then 70%.
	assert.Equal(t, "stu-1", rankings[0].StudentID)
	assert.Equal(t, "stu-3", rankings[1].StudentID)
	assert.Equal(t, "stu-2", rankings[2].StudentID)
	assert.LessOrEqual(t, rankings[0].GPA, rankings[1].GPA)
	assert.LessOrEqual(t, rankings[1].GPA, rankings[2].GPA)
}

func TestSubjectRankingsTiesKeepInputOrder(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}
	entries := []Entry{
		scoreEntry("stu-b", "quiz", 8, 10),
		scoreEntry("stu-a", "quiz", 8, 10),
	}

	rankings := calc.SubjectRankings("sub-1", []string{"stu-b", "stu-a"}, entries, components)
	require.Len(t, rankings, 2)
	assert.Equal(t, "stu-b", rankings[0].StudentID)
	assert.Equal(t, "stu-a", rankings[1].StudentID)
}

func TestSubjectRankingsIgnoreOtherSubjects(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}
	entries := []Entry{
		{StudentID: "stu-1", SubjectID: "sub-2", ComponentID: "quiz", Score: fptr(10), MaxScore: fptr(10)},
	}

	rankings := calc.SubjectRankings("sub-1", []string{"stu-1"}, entries, components)
	assert.Empty(t, rankings)
}

func TestAllSubjectGradesOmitsEmptySubjects(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}
	entries := []Entry{scoreEntry("stu-1", "quiz", 9, 10)}

	result := calc.AllSubjectGrades([]string{"stu-1"}, []string{"sub-1", "sub-9"}, entries, components)
	require.Contains(t, result, "sub-1")
	assert.NotContains(t, result, "sub-9")
	assert.Equal(t, 1, result["sub-1"][0].Rank)
}
