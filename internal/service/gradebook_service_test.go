package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

func fptr(v float64) *float64 { return &v }

type mockEntryRepo struct {
	stored      map[string]models.GradeEntry
	bulked      int
	failUpserts map[string]bool
}

func (m *mockEntryRepo) key(e models.GradeEntry) string {
	return e.StudentID + "|" + e.ComponentID
}

func (m *mockEntryRepo) List(ctx context.Context, filter models.GradeEntryFilter) ([]models.GradeEntry, error) {
	var result []models.GradeEntry
	for _, entry := range m.stored {
		if filter.StudentID != "" && filter.StudentID != entry.StudentID {
			continue
		}
		if filter.ClassID != "" && filter.ClassID != entry.ClassID {
			continue
		}
		if filter.SubjectID != "" && filter.SubjectID != entry.SubjectID {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (m *mockEntryRepo) ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeEntry, error) {
	var result []models.GradeEntry
	for _, entry := range m.stored {
		for _, id := range subjectIDs {
			if entry.SubjectID == id {
				result = append(result, entry)
				break
			}
		}
	}
	return result, nil
}

func (m *mockEntryRepo) FindByID(ctx context.Context, id string) (*models.GradeEntry, error) {
	for _, entry := range m.stored {
		if entry.ID == id {
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEntryRepo) Upsert(ctx context.Context, entry *models.GradeEntry) error {
	if m.failUpserts[m.key(*entry)] {
		return sql.ErrConnDone
	}
	if m.stored == nil {
		m.stored = make(map[string]models.GradeEntry)
	}
	m.stored[m.key(*entry)] = *entry
	return nil
}

func (m *mockEntryRepo) BulkUpsert(ctx context.Context, entries []models.GradeEntry) error {
	m.bulked += len(entries)
	for i := range entries {
		_ = m.Upsert(ctx, &entries[i])
	}
	return nil
}

func (m *mockEntryRepo) Delete(ctx context.Context, id string) error {
	for key, entry := range m.stored {
		if entry.ID == id {
			delete(m.stored, key)
			return nil
		}
	}
	return nil
}

type mockComponentRepo struct {
	components map[string]models.GradeComponent
}

func (m *mockComponentRepo) ListByClass(ctx context.Context, classID string) ([]models.GradeComponent, error) {
	var result []models.GradeComponent
	for _, component := range m.components {
		if component.ClassID == classID {
			result = append(result, component)
		}
	}
	return result, nil
}

func (m *mockComponentRepo) ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeComponent, error) {
	var result []models.GradeComponent
	for _, component := range m.components {
		for _, id := range subjectIDs {
			if component.SubjectID == id {
				result = append(result, component)
				break
			}
		}
	}
	return result, nil
}

func (m *mockComponentRepo) FindByID(ctx context.Context, id string) (*models.GradeComponent, error) {
	if component, ok := m.components[id]; ok {
		return &component, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockComponentRepo) Create(ctx context.Context, component *models.GradeComponent) error {
	if m.components == nil {
		m.components = make(map[string]models.GradeComponent)
	}
	if component.ID == "" {
		component.ID = "comp-new"
	}
	m.components[component.ID] = *component
	return nil
}

func (m *mockComponentRepo) Update(ctx context.Context, component *models.GradeComponent) error {
	m.components[component.ID] = *component
	return nil
}

func (m *mockComponentRepo) Delete(ctx context.Context, id string) error {
	delete(m.components, id)
	return nil
}

type mockClassReader struct {
	classes map[string]*models.Class
}

func (m *mockClassReader) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if class, ok := m.classes[id]; ok {
		return class, nil
	}
	return nil, sql.ErrNoRows
}

type mockSubjectReader struct {
	subjects []models.Subject
}

func (m *mockSubjectReader) ListByStudent(ctx context.Context, studentID string) ([]models.Subject, error) {
	return m.subjects, nil
}

func newGradebookFixture() (*GradebookService, *mockEntryRepo, *mockComponentRepo) {
	entries := &mockEntryRepo{stored: make(map[string]models.GradeEntry)}
	components := &mockComponentRepo{components: map[string]models.GradeComponent{
		"comp-quiz": {ID: "comp-quiz", ClassID: "class-1", Name: "Quizzes", WeightPercentage: fptr(40), SubjectID: "sub-1"},
		"comp-exam": {ID: "comp-exam", ClassID: "class-1", Name: "Exams", WeightPercentage: fptr(60), SubjectID: "sub-1"},
	}}
	classes := &mockClassReader{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", SubjectID: "sub-1", ProfessorID: "prof-1"},
	}}
	subjects := &mockSubjectReader{subjects: []models.Subject{{ID: "sub-1", Code: "MATH101", Name: "Calculus I"}}}

	svc := NewGradebookService(entries, components, classes, subjects, nil, nil, nil, nil, config.GradebookConfig{
		LateCredit:        0.5,
		DenominatorPolicy: "all_components",
		PassingGrade:      75,
	})
	return svc, entries, components
}

func professorClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleProfessor}
}

func TestUpsertEntryRejectsForeignProfessor(t *testing.T) {
	svc, _, _ := newGradebookFixture()

	_, err := svc.UpsertEntry(context.Background(), "class-1", professorClaims("prof-2"), models.UpsertGradeEntryRequest{
		StudentID:   "stu-1",
		ComponentID: "comp-quiz",
		Score:       fptr(8),
		MaxScore:    fptr(10),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpsertEntryRejectsComponentFromOtherClass(t *testing.T) {
	svc, _, components := newGradebookFixture()
	components.components["comp-other"] = models.GradeComponent{ID: "comp-other", ClassID: "class-9"}

	_, err := svc.UpsertEntry(context.Background(), "class-1", professorClaims("prof-1"), models.UpsertGradeEntryRequest{
		StudentID:   "stu-1",
		ComponentID: "comp-other",
		Score:       fptr(8),
		MaxScore:    fptr(10),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpsertEntryRequiresScoreOrAttendance(t *testing.T) {
	svc, _, _ := newGradebookFixture()

	_, err := svc.UpsertEntry(context.Background(), "class-1", professorClaims("prof-1"), models.UpsertGradeEntryRequest{
		StudentID:   "stu-1",
		ComponentID: "comp-quiz",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBulkUpsertAtomicRejectsWholeBatch(t *testing.T) {
	svc, entries, _ := newGradebookFixture()

	_, err := svc.BulkUpsert(context.Background(), "class-1", professorClaims("prof-1"), models.BulkUpsertRequest{
		Mode: models.BulkModeAtomic,
		Entries: []models.UpsertGradeEntryRequest{
			{StudentID: "stu-1", ComponentID: "comp-quiz", Score: fptr(8), MaxScore: fptr(10)},
			{StudentID: "stu-2", ComponentID: "comp-missing", Score: fptr(9), MaxScore: fptr(10)},
		},
	})
	require.Error(t, err)
	assert.Empty(t, entries.stored)
}

func TestBulkUpsertPartialAppliesValidRows(t *testing.T) {
	svc, entries, _ := newGradebookFixture()

	result, err := svc.BulkUpsert(context.Background(), "class-1", professorClaims("prof-1"), models.BulkUpsertRequest{
		Mode: models.BulkModePartial,
		Entries: []models.UpsertGradeEntryRequest{
			{StudentID: "stu-1", ComponentID: "comp-quiz", Score: fptr(8), MaxScore: fptr(10)},
			{StudentID: "stu-2", ComponentID: "comp-missing", Score: fptr(9), MaxScore: fptr(10)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, 1, result.Rejected[0].Index)
	assert.Len(t, entries.stored, 1)
}

func TestBulkUpsertPartialReportsOriginalRowIndex(t *testing.T) {
	svc, entries, _ := newGradebookFixture()
	entries.failUpserts = map[string]bool{"stu-2|comp-quiz": true}

	result, err := svc.BulkUpsert(context.Background(), "class-1", professorClaims("prof-1"), models.BulkUpsertRequest{
		Mode: models.BulkModePartial,
		Entries: []models.UpsertGradeEntryRequest{
			{StudentID: "stu-1", ComponentID: "comp-missing", Score: fptr(8), MaxScore: fptr(10)},
			{StudentID: "stu-1", ComponentID: "comp-quiz", Score: fptr(8), MaxScore: fptr(10)},
			{StudentID: "stu-2", ComponentID: "comp-quiz", Score: fptr(9), MaxScore: fptr(10)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Accepted)
	require.Len(t, result.Rejected, 2)
	assert.Equal(t, 0, result.Rejected[0].Index)
	// The write failure on the last row must not inherit the filtered slice position.
	assert.Equal(t, 2, result.Rejected[1].Index)
	assert.Equal(t, "write failed", result.Rejected[1].Reason)
}

func TestStudentGradesBuildsBreakdownAndPassing(t *testing.T) {
	svc, entries, _ := newGradebookFixture()
	seed := []models.GradeEntry{
		{ID: "ge-1", StudentID: "stu-1", ComponentID: "comp-quiz", ClassID: "class-1", SubjectID: "sub-1", Score: fptr(8), MaxScore: fptr(10)},
		{ID: "ge-2", StudentID: "stu-1", ComponentID: "comp-exam", ClassID: "class-1", SubjectID: "sub-1", Score: fptr(45), MaxScore: fptr(50)},
	}
	for i := range seed {
		require.NoError(t, entries.Upsert(context.Background(), &seed[i]))
	}

	views, err := svc.StudentGrades(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, "Calculus I", view.SubjectName)
	assert.Equal(t, 86.0, view.Percentage)
	assert.True(t, view.Passing)
	assert.InDelta(t, 1.9583, view.GPA, 0.01)
	require.Len(t, view.Components, 2)
	assert.Empty(t, view.Notes)
}

func TestStudentGradesNotesWeightDrift(t *testing.T) {
	svc, entries, components := newGradebookFixture()
	components.components["comp-extra"] = models.GradeComponent{
		ID: "comp-extra", ClassID: "class-1", Name: "Projects", WeightPercentage: fptr(30), SubjectID: "sub-1",
	}
	entry := models.GradeEntry{ID: "ge-1", StudentID: "stu-1", ComponentID: "comp-quiz", ClassID: "class-1", SubjectID: "sub-1", Score: fptr(10), MaxScore: fptr(10)}
	require.NoError(t, entries.Upsert(context.Background(), &entry))

	views, err := svc.StudentGrades(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Notes, 1)
	assert.Contains(t, views[0].Notes[0], "130.00")
}

func TestCreateComponentRejectsWeightAboveHundred(t *testing.T) {
	svc, _, _ := newGradebookFixture()

	_, err := svc.CreateComponent(context.Background(), "class-1", professorClaims("prof-1"), models.GradeComponentRequest{
		Name:             "Broken",
		WeightPercentage: fptr(120),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteEntryChecksOwnership(t *testing.T) {
	svc, entries, _ := newGradebookFixture()
	entry := models.GradeEntry{ID: "ge-1", StudentID: "stu-1", ComponentID: "comp-quiz", ClassID: "class-1", Score: fptr(5), MaxScore: fptr(10)}
	require.NoError(t, entries.Upsert(context.Background(), &entry))

	err := svc.DeleteEntry(context.Background(), "ge-1", professorClaims("prof-2"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.DeleteEntry(context.Background(), "ge-1", professorClaims("prof-1")))
	assert.Empty(t, entries.stored)
}
