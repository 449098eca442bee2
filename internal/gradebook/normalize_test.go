package gradebook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentRefFlattensObjectAndArray(t *testing.T) {
	cases := map[string]string{
		"object":        `{"student_id":"stu-1","component_id":"c1","grade_components":{"component_id":"c1","component_name":"Quizzes","weight_percentage":40}}`,
		"wrapped array": `{"student_id":"stu-1","component_id":"c1","grade_components":[{"component_id":"c1","component_name":"Quizzes","weight_percentage":40}]}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var row RawEntry
			require.NoError(t, json.Unmarshal([]byte(payload), &row))
			require.NotNil(t, row.Component.Component)
			assert.Equal(t, "c1", row.Component.Component.ComponentID)
			assert.Equal(t, "Quizzes", row.Component.Component.ComponentName)
		})
	}
}

func TestComponentRefToleratesNullAndGarbage(t *testing.T) {
	for _, payload := range []string{
		`{"student_id":"stu-1","grade_components":null}`,
		`{"student_id":"stu-1","grade_components":[]}`,
		`{"student_id":"stu-1","grade_components":42}`,
	} {
		var row RawEntry
		require.NoError(t, json.Unmarshal([]byte(payload), &row))
		assert.Nil(t, row.Component.Component)
	}
}

func TestNormalizeComponentsDedupesAndDefaultsWeight(t *testing.T) {
	raw := []RawComponent{
		{ComponentID: "c1", ComponentName: "Quizzes", WeightPercentage: fptr(40)},
		{ComponentID: "c1", ComponentName: "Quizzes", WeightPercentage: fptr(40)},
		{ComponentID: "c2", ComponentName: "Attendance", WeightPercentage: nil, IsAttendance: true},
	}

	components := NormalizeComponents(raw)
	require.Len(t, components, 2)
	assert.Equal(t, 40.0, components[0].Weight)
	assert.Equal(t, 0.0, components[1].Weight)
	assert.True(t, components[1].IsAttendance)
}

func TestNormalizeEntriesKeepsMalformedRows(t *testing.T) {
	raw := []RawEntry{
		{StudentID: "stu-1", ComponentID: "c1", Score: fptr(8), MaxScore: fptr(10)},
		{StudentID: "stu-1", ComponentID: "c1"}, // no score, no attendance
	}

	entries := NormalizeEntries(raw)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[1].Score)
	assert.Nil(t, entries[1].Attendance)
}

func TestNormalizeEntriesBackfillsComponentIDFromRelation(t *testing.T) {
	raw := []RawEntry{{
		StudentID: "stu-1",
		Component: ComponentRef{Component: &RawComponent{ComponentID: "c9", ComponentName: "Exams"}},
	}}

	entries := NormalizeEntries(raw)
	require.Len(t, entries, 1)
	assert.Equal(t, "c9", entries[0].ComponentID)
}

func TestNormalizeEntriesIdempotent(t *testing.T) {
	recorded := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	raw := []RawEntry{
		{StudentID: "stu-1", SubjectID: "sub-1", ComponentID: "c1", Score: fptr(8), MaxScore: fptr(10), DateRecorded: recorded},
		{StudentID: "stu-2", SubjectID: "sub-1", ComponentID: "c2", Attendance: sptr("late"), DateRecorded: recorded},
	}

	once := NormalizeEntries(raw)

	rewrapped := make([]RawEntry, len(once))
	for i, entry := range once {
		rewrapped[i] = RawEntry{
			StudentID:    entry.StudentID,
			SubjectID:    entry.SubjectID,
			ComponentID:  entry.ComponentID,
			Score:        entry.Score,
			MaxScore:     entry.MaxScore,
			Attendance:   entry.Attendance,
			DateRecorded: entry.DateRecorded,
		}
	}
	twice := NormalizeEntries(rewrapped)

	assert.Equal(t, once, twice)
}

func TestComponentsFromEntries(t *testing.T) {
	raw := []RawEntry{
		{StudentID: "stu-1", Component: ComponentRef{Component: &RawComponent{ComponentID: "c1", ComponentName: "Quizzes", WeightPercentage: fptr(40)}}},
		{StudentID: "stu-2", Component: ComponentRef{Component: &RawComponent{ComponentID: "c1", ComponentName: "Quizzes", WeightPercentage: fptr(40)}}},
		{StudentID: "stu-1", Component: ComponentRef{}},
	}

	components := ComponentsFromEntries(raw)
	require.Len(t, components, 1)
	assert.Equal(t, "c1", components[0].ComponentID)
}
