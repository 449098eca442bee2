package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/gradebook-api/internal/gradebook"
	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type mockStudentLister struct {
	students []models.Student
}

func (m *mockStudentLister) ListBySubject(ctx context.Context, subjectID string) ([]models.Student, error) {
	return m.students, nil
}

func (m *mockStudentLister) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return m.students, len(m.students), nil
}

type mockSubjectCatalog struct {
	subjects []models.Subject
}

func (m *mockSubjectCatalog) List(ctx context.Context) ([]models.Subject, error) {
	return m.subjects, nil
}

type memoryCache struct {
	values map[string][]byte
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = []byte("set")
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }

func newLeaderboardFixture(entries *mockEntryRepo, components *mockComponentRepo) (*LeaderboardService, *memoryCache) {
	students := &mockStudentLister{students: []models.Student{
		{ID: "stu-1", FullName: "Ada Cruz"},
		{ID: "stu-2", FullName: "Ben Reyes"},
		{ID: "stu-3", FullName: "Cara Lim"},
	}}
	subjects := &mockSubjectCatalog{subjects: []models.Subject{{ID: "sub-1", Name: "Mathematics"}}}
	cacheRepo := &memoryCache{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	svc := NewLeaderboardService(students, subjects, entries, components, cacheSvc,
		gradebook.NewCalculator(gradebook.DefaultPolicy()), nil,
		config.LeaderboardConfig{Enabled: true, CacheTTL: time.Minute})
	return svc, cacheRepo
}

func TestSubjectLeaderboardRanksAscendingGPA(t *testing.T) {
	entries := &mockEntryRepo{stored: make(map[string]models.GradeEntry)}
	components := &mockComponentRepo{components: map[string]models.GradeComponent{
		"comp-quiz": {ID: "comp-quiz", ClassID: "class-1", Name: "Quizzes", WeightPercentage: fptr(100), SubjectID: "sub-1"},
	}}
	seed := []models.GradeEntry{
		{ID: "ge-1", StudentID: "stu-1", ComponentID: "comp-quiz", ClassID: "class-1", SubjectID: "sub-1", Score: fptr(7), MaxScore: fptr(10)},
		{ID: "ge-2", StudentID: "stu-2", ComponentID: "comp-quiz", ClassID: "class-1", SubjectID: "sub-1", Score: fptr(9), MaxScore: fptr(10)},
	}
	for i := range seed {
		require.NoError(t, entries.Upsert(context.Background(), &seed[i]))
	}
	svc, cacheRepo := newLeaderboardFixture(entries, components)

	standings, hit, err := svc.SubjectLeaderboard(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.False(t, hit)

	// stu-3 has no recorded work and takes no rank slot.
	require.Len(t, standings, 2)
	assert.Equal(t, "stu-2", standings[0].StudentID)
	assert.Equal(t, "Ben Reyes", standings[0].StudentName)
	require.NotNil(t, standings[0].Rank)
	assert.Equal(t, 1, *standings[0].Rank)
	assert.Equal(t, "stu-1", standings[1].StudentID)
	assert.Equal(t, 2, *standings[1].Rank)
	assert.Less(t, standings[0].GPA, standings[1].GPA)

	assert.Contains(t, cacheRepo.values, "leaderboard:subject:sub-1")
}

func TestSubjectLeaderboardDisabled(t *testing.T) {
	svc := NewLeaderboardService(nil, nil, nil, nil, nil, nil, nil, config.LeaderboardConfig{Enabled: false})

	_, _, err := svc.SubjectLeaderboard(context.Background(), "sub-1")
	require.Error(t, err)
}

func TestTopPerformersAveragesAcrossSubjects(t *testing.T) {
	entries := &mockEntryRepo{stored: make(map[string]models.GradeEntry)}
	components := &mockComponentRepo{components: map[string]models.GradeComponent{
		"comp-quiz": {ID: "comp-quiz", ClassID: "class-1", Name: "Quizzes", WeightPercentage: fptr(100), SubjectID: "sub-1"},
	}}
	seed := []models.GradeEntry{
		{ID: "ge-1", StudentID: "stu-1", ComponentID: "comp-quiz", ClassID: "class-1", SubjectID: "sub-1", Score: fptr(6), MaxScore: fptr(10)},
		{ID: "ge-2", StudentID: "stu-2", ComponentID: "comp-quiz", ClassID: "class-1", SubjectID: "sub-1", Score: fptr(10), MaxScore: fptr(10)},
	}
	for i := range seed {
		require.NoError(t, entries.Upsert(context.Background(), &seed[i]))
	}
	svc, cacheRepo := newLeaderboardFixture(entries, components)

	standings, hit, err := svc.TopPerformers(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, hit)

	// Limit trims to the single best student; stu-3 never appears.
	require.Len(t, standings, 1)
	assert.Equal(t, "stu-2", standings[0].StudentID)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, 1, standings[0].SubjectCount)
	assert.InDelta(t, 1.0, standings[0].GPA, 0.0001)

	assert.Contains(t, cacheRepo.values, "leaderboard:top:1")
}
