package gradebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func scoreEntry(studentID, componentID string, score, max float64) Entry {
	return Entry{StudentID: studentID, SubjectID: "sub-1", ComponentID: componentID, Score: fptr(score), MaxScore: fptr(max)}
}

func attendanceEntry(studentID, componentID, status string) Entry {
	return Entry{StudentID: studentID, SubjectID: "sub-1", ComponentID: componentID, Attendance: sptr(status)}
}

func TestComponentAverageAggregatesBeforeDividing(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	component := Component{ComponentID: "quiz", Weight: 100}
	entries := []Entry{
		scoreEntry("stu-1", "quiz", 5, 5),
		scoreEntry("stu-1", "quiz", 0, 20),
	}

	// 5/25, never the average of 100% and 0%.
	assert.Equal(t, 20.0, calc.ComponentAverage(component, entries))
}

func TestComponentAverageAttendanceRatio(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	component := Component{ComponentID: "att", Weight: 10, IsAttendance: true}
	entries := []Entry{
		attendanceEntry("stu-1", "att", "present"),
		attendanceEntry("stu-1", "att", "late"),
		attendanceEntry("stu-1", "att", "absent"),
	}

	assert.Equal(t, 50.0, calc.ComponentAverage(component, entries))
}

func TestComponentAverageLateCreditPolicy(t *testing.T) {
	calc := NewCalculator(Policy{LateCredit: 1.0, Denominator: DenominatorAllComponents})
	component := Component{ComponentID: "att", IsAttendance: true}
	entries := []Entry{
		attendanceEntry("stu-1", "att", "late"),
		attendanceEntry("stu-1", "att", "absent"),
	}

	assert.Equal(t, 50.0, calc.ComponentAverage(component, entries))
}

func TestComponentAverageSkipsMalformedScores(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	component := Component{ComponentID: "quiz"}
	entries := []Entry{
		scoreEntry("stu-1", "quiz", 8, 10),
		{StudentID: "stu-1", ComponentID: "quiz"}, // neither score nor attendance
		{StudentID: "stu-1", ComponentID: "quiz", Score: fptr(3), MaxScore: fptr(0)},
	}

	assert.Equal(t, 80.0, calc.ComponentAverage(component, entries))
}

func TestComponentAverageAllMalformedIsZero(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	component := Component{ComponentID: "quiz"}
	entries := []Entry{{StudentID: "stu-1", ComponentID: "quiz"}}

	assert.Equal(t, 0.0, calc.ComponentAverage(component, entries))
}

func TestDenominatorWeightPolicies(t *testing.T) {
	components := []Component{
		{ComponentID: "quiz", Weight: 30},
		{ComponentID: "exam", Weight: 70},
		{ComponentID: "extra", Weight: 0},
	}
	data := StudentData{"exam": {scoreEntry("stu-1", "exam", 50, 50)}}

	all := NewCalculator(Policy{LateCredit: 0.5, Denominator: DenominatorAllComponents})
	gradedOnly := NewCalculator(Policy{LateCredit: 0.5, Denominator: DenominatorGradedOnly})

	assert.Equal(t, 100.0, all.DenominatorWeight(data, components))
	assert.Equal(t, 70.0, gradedOnly.DenominatorWeight(data, components))
}

func TestFinalGradeUngradedComponentDragsAverage(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{
		{ComponentID: "quiz", Weight: 30},
		{ComponentID: "exam", Weight: 70},
	}
	data := StudentData{"exam": {scoreEntry("stu-1", "exam", 50, 50)}}

	// 30%-weighted quiz component has no entries: the final percentage is
	// 70.0, not 100.0 over the remaining weight.
	assert.Equal(t, 70.0, calc.FinalGrade(data, components))
}

func TestFinalGradeWeightedScenario(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{
		{ComponentID: "quiz", Name: "Quizzes", Weight: 40},
		{ComponentID: "exam", Name: "Exams", Weight: 60},
	}
	data := StudentData{
		"quiz": {scoreEntry("stu-1", "quiz", 8, 10)},
		"exam": {scoreEntry("stu-1", "exam", 45, 50)},
	}

	percentage := calc.FinalGrade(data, components)
	require.Equal(t, 86.0, percentage)

	gpa := PreciseGPA(percentage)
	assert.GreaterOrEqual(t, gpa, 1.75)
	assert.LessOrEqual(t, gpa, 2.0)
	assert.InDelta(t, 1.9583, gpa, 0.001)
}

func TestFinalGradeZeroDataReturnsZero(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}

	assert.Equal(t, 0.0, calc.FinalGrade(StudentData{}, components))
	assert.Equal(t, 0.0, calc.FinalGrade(nil, nil))
}

func TestFinalGradeDeterminism(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{
		{ComponentID: "quiz", Weight: 40},
		{ComponentID: "att", Weight: 60, IsAttendance: true},
	}
	data := StudentData{
		"quiz": {scoreEntry("stu-1", "quiz", 7, 10), scoreEntry("stu-1", "quiz", 9, 10)},
		"att":  {attendanceEntry("stu-1", "att", "present"), attendanceEntry("stu-1", "att", "late")},
	}

	first := calc.FinalGrade(data, components)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, calc.FinalGrade(data, components))
	}
}

func TestFinalGradeClampsAbove100(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{{ComponentID: "quiz", Weight: 100}}
	data := StudentData{"quiz": {scoreEntry("stu-1", "quiz", 12, 10)}} // bonus points

	assert.Equal(t, 100.0, calc.FinalGrade(data, components))
}

func TestFinalGradeNullWeightComponentExcluded(t *testing.T) {
	calc := NewCalculator(DefaultPolicy())
	components := []Component{
		{ComponentID: "quiz", Weight: 0}, // null weight normalized to 0
		{ComponentID: "exam", Weight: 50},
	}
	data := StudentData{
		"quiz": {scoreEntry("stu-1", "quiz", 1, 10)},
		"exam": {scoreEntry("stu-1", "exam", 40, 50)},
	}

	// The zero-weight component contributes nothing and stays out of the
	// denominator.
	assert.Equal(t, 80.0, calc.FinalGrade(data, components))
}
