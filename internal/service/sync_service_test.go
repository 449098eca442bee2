package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/classroom"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type mockScoreFetcher struct {
	scores []classroom.CourseWorkScore
}

func (m *mockScoreFetcher) CourseScores(ctx context.Context, courseID string) ([]classroom.CourseWorkScore, error) {
	return m.scores, nil
}

type mockEmailResolver struct {
	byEmail map[string]*models.Student
}

func (m *mockEmailResolver) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if student, ok := m.byEmail[email]; ok {
		return student, nil
	}
	return nil, sql.ErrNoRows
}

func TestImportClassDisabled(t *testing.T) {
	svc := NewSyncService(nil, nil, nil, nil, nil, nil, nil, config.ClassroomConfig{Enabled: false})

	_, err := svc.ImportClass(context.Background(), "class-1", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSyncDisabled.Code, appErrors.FromError(err).Code)
}

func TestImportClassRequiresLinkedCourse(t *testing.T) {
	classes := &mockClassReader{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", SubjectID: "sub-1", ProfessorID: "prof-1"},
	}}
	svc := NewSyncService(classes, nil, nil, nil, &mockScoreFetcher{}, nil, nil, config.ClassroomConfig{Enabled: true})

	_, err := svc.ImportClass(context.Background(), "class-1", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestImportClassMapsRosterAndReportsUnknownEmails(t *testing.T) {
	courseRef := "course-77"
	classes := &mockClassReader{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", SubjectID: "sub-1", ProfessorID: "prof-1", CourseRefID: &courseRef},
	}}
	students := &mockEmailResolver{byEmail: map[string]*models.Student{
		"ada@school.edu": {ID: "stu-1", FullName: "Ada Cruz", Email: "ada@school.edu"},
	}}
	entries := &mockEntryRepo{stored: make(map[string]models.GradeEntry)}
	components := &mockComponentRepo{components: make(map[string]models.GradeComponent)}
	fetcher := &mockScoreFetcher{scores: []classroom.CourseWorkScore{
		{StudentEmail: "ada@school.edu", CourseWorkID: "cw-1", Score: fptr(18), MaxScore: fptr(20), RecordedAt: time.Now()},
		{StudentEmail: "ghost@school.edu", CourseWorkID: "cw-1", Score: fptr(15), MaxScore: fptr(20), RecordedAt: time.Now()},
		{StudentEmail: "ada@school.edu", CourseWorkID: "cw-2", MaxScore: fptr(20)},
	}}

	svc := NewSyncService(classes, students, components, entries, fetcher, nil, nil, config.ClassroomConfig{Enabled: true})

	result, err := svc.ImportClass(context.Background(), "class-1", professorClaims("prof-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	require.Len(t, result.Rejected, 2)

	// The import component is created on demand with no weight.
	comps, _ := components.ListByClass(context.Background(), "class-1")
	require.Len(t, comps, 1)
	assert.Equal(t, importComponentName, comps[0].Name)
	assert.Nil(t, comps[0].WeightPercentage)

	for _, entry := range entries.stored {
		assert.Equal(t, models.EntryTypeImported, entry.EntryType)
		assert.Equal(t, "stu-1", entry.StudentID)
	}
}
