package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/acadhub/gradebook-api/internal/gradebook"
	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type subjectStudentLister interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type subjectCatalog interface {
	List(ctx context.Context) ([]models.Subject, error)
}

type subjectEntryLister interface {
	ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeEntry, error)
}

type subjectComponentLister interface {
	ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeComponent, error)
}

// LeaderboardService computes GPA-ascending subject rankings with a Redis
// read-through cache in front of the calculation.
type LeaderboardService struct {
	students   subjectStudentLister
	subjects   subjectCatalog
	entries    subjectEntryLister
	components subjectComponentLister
	cache      *CacheService
	calc       *gradebook.Calculator
	logger     *zap.Logger
	cfg        config.LeaderboardConfig
}

// NewLeaderboardService constructs a LeaderboardService.
func NewLeaderboardService(
	students subjectStudentLister,
	subjects subjectCatalog,
	entries subjectEntryLister,
	components subjectComponentLister,
	cache *CacheService,
	calc *gradebook.Calculator,
	logger *zap.Logger,
	cfg config.LeaderboardConfig,
) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = gradebook.NewCalculator(gradebook.DefaultPolicy())
	}
	return &LeaderboardService{
		students:   students,
		subjects:   subjects,
		entries:    entries,
		components: components,
		cache:      cache,
		calc:       calc,
		logger:     logger,
		cfg:        cfg,
	}
}

// SubjectLeaderboard returns the ranked standings for one subject. The second
// return value reports whether the payload came from cache.
func (s *LeaderboardService) SubjectLeaderboard(ctx context.Context, subjectID string) ([]models.StudentSubjectGrade, bool, error) {
	if !s.cfg.Enabled {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "leaderboard is disabled")
	}

	key := fmt.Sprintf("leaderboard:subject:%s", subjectID)
	var cached []models.StudentSubjectGrade
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	standings, err := s.compute(ctx, subjectID)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, key, standings, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache leaderboard", zap.String("subject_id", subjectID), zap.Error(err))
	}
	return standings, false, nil
}

const defaultTopLimit = 10

// TopPerformers returns the best overall standings across every subject,
// ranked ascending by mean GPA. Students with no graded work anywhere are
// left out. The second return value reports whether the payload came from
// cache.
func (s *LeaderboardService) TopPerformers(ctx context.Context, limit int) ([]models.StudentOverallStanding, bool, error) {
	if !s.cfg.Enabled {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "leaderboard is disabled")
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}

	key := fmt.Sprintf("leaderboard:top:%d", limit)
	var cached []models.StudentOverallStanding
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	standings, err := s.computeOverall(ctx, limit)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, key, standings, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache top performers", zap.Error(err))
	}
	return standings, false, nil
}

func (s *LeaderboardService) computeOverall(ctx context.Context, limit int) ([]models.StudentOverallStanding, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	active := true
	students, _, err := s.students.List(ctx, models.StudentFilter{Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	subjectIDs := make([]string, len(subjects))
	for i, subject := range subjects {
		subjectIDs[i] = subject.ID
	}
	studentIDs := make([]string, len(students))
	names := make(map[string]string, len(students))
	for i, student := range students {
		studentIDs[i] = student.ID
		names[student.ID] = student.FullName
	}

	rows, err := s.entries.ListBySubjects(ctx, subjectIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade entries")
	}
	components, err := s.components.ListBySubjects(ctx, subjectIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list components")
	}

	perSubject := s.calc.AllSubjectGrades(studentIDs, subjectIDs, engineEntries(rows), engineComponents(components))

	sums := make(map[string]float64, len(students))
	counts := make(map[string]int, len(students))
	for _, ranked := range perSubject {
		for _, grade := range ranked {
			sums[grade.StudentID] += grade.GPA
			counts[grade.StudentID]++
		}
	}

	standings := make([]models.StudentOverallStanding, 0, len(counts))
	for _, id := range studentIDs {
		if counts[id] == 0 {
			continue
		}
		standings = append(standings, models.StudentOverallStanding{
			StudentID:    id,
			StudentName:  names[id],
			GPA:          sums[id] / float64(counts[id]),
			SubjectCount: counts[id],
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].GPA < standings[j].GPA
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings, nil
}

func (s *LeaderboardService) compute(ctx context.Context, subjectID string) ([]models.StudentSubjectGrade, error) {
	students, err := s.students.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject roster")
	}
	rows, err := s.entries.ListBySubjects(ctx, []string{subjectID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade entries")
	}
	components, err := s.components.ListBySubjects(ctx, []string{subjectID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list components")
	}

	studentIDs := make([]string, len(students))
	names := make(map[string]string, len(students))
	for i, student := range students {
		studentIDs[i] = student.ID
		names[student.ID] = student.FullName
	}

	ranked := s.calc.SubjectRankings(subjectID, studentIDs, engineEntries(rows), engineComponents(components))

	standings := make([]models.StudentSubjectGrade, 0, len(ranked))
	for _, grade := range ranked {
		rank := grade.Rank
		standings = append(standings, models.StudentSubjectGrade{
			StudentID:   grade.StudentID,
			StudentName: names[grade.StudentID],
			SubjectID:   grade.SubjectID,
			Percentage:  grade.Percentage,
			GPA:         grade.GPA,
			Rank:        &rank,
		})
	}
	return standings, nil
}
