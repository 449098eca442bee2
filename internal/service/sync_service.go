package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/classroom"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

// importComponentName is the component classroom scores land under. It is
// created with no weight so imports never shift grades until a professor
// assigns one.
const importComponentName = "Classroom Import"

type courseScoreFetcher interface {
	CourseScores(ctx context.Context, courseID string) ([]classroom.CourseWorkScore, error)
}

type syncStudentResolver interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

// SyncService imports scored coursework from the external classroom platform
// into the gradebook as imported entries.
type SyncService struct {
	classes    classReader
	students   syncStudentResolver
	components gradeComponentRepository
	entries    gradeEntryRepository
	fetcher    courseScoreFetcher
	cache      *CacheService
	logger     *zap.Logger
	cfg        config.ClassroomConfig
}

// NewSyncService constructs a SyncService.
func NewSyncService(
	classes classReader,
	students syncStudentResolver,
	components gradeComponentRepository,
	entries gradeEntryRepository,
	fetcher courseScoreFetcher,
	cache *CacheService,
	logger *zap.Logger,
	cfg config.ClassroomConfig,
) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		classes:    classes,
		students:   students,
		components: components,
		entries:    entries,
		fetcher:    fetcher,
		cache:      cache,
		logger:     logger,
		cfg:        cfg,
	}
}

// ImportClass pulls coursework scores for the class's linked course and
// upserts them as imported entries. Rows that cannot be mapped onto the
// roster are reported, never fatal.
func (s *SyncService) ImportClass(ctx context.Context, classID string, actor *models.JWTClaims) (*models.BulkUpsertResult, error) {
	if !s.cfg.Enabled || s.fetcher == nil {
		return nil, appErrors.Clone(appErrors.ErrSyncDisabled, "")
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if actor != nil && actor.Role == models.RoleProfessor && class.ProfessorID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class belongs to another professor")
	}
	if class.CourseRefID == nil || *class.CourseRefID == "" {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "class has no linked classroom course")
	}

	scores, err := s.fetcher.CourseScores(ctx, *class.CourseRefID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course scores")
	}

	component, err := s.importComponent(ctx, classID)
	if err != nil {
		return nil, err
	}

	result := &models.BulkUpsertResult{}
	batch := make([]models.GradeEntry, 0, len(scores))
	for i, score := range scores {
		if score.Score == nil || score.MaxScore == nil || *score.MaxScore <= 0 {
			result.Rejected = append(result.Rejected, models.BulkRejection{Index: i, Reason: "missing or invalid score"})
			continue
		}
		student, err := s.students.FindByEmail(ctx, score.StudentEmail)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				result.Rejected = append(result.Rejected, models.BulkRejection{
					Index:  i,
					Reason: fmt.Sprintf("no student with email %s", score.StudentEmail),
				})
				continue
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
		}
		batch = append(batch, models.GradeEntry{
			StudentID:    student.ID,
			ComponentID:  component.ID,
			ClassID:      classID,
			Score:        score.Score,
			MaxScore:     score.MaxScore,
			EntryType:    models.EntryTypeImported,
			DateRecorded: score.RecordedAt,
		})
	}

	if len(batch) > 0 {
		if err := s.entries.BulkUpsert(ctx, batch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save imported entries")
		}
		result.Accepted = len(batch)
	}

	s.logger.Info("classroom import finished",
		zap.String("class_id", classID),
		zap.Int("accepted", result.Accepted),
		zap.Int("rejected", len(result.Rejected)))

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "leaderboard:*")
		_ = s.cache.Invalidate(ctx, "dashboard:*")
	}
	return result, nil
}

func (s *SyncService) importComponent(ctx context.Context, classID string) (*models.GradeComponent, error) {
	components, err := s.components.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list components")
	}
	for i := range components {
		if components[i].Name == importComponentName {
			return &components[i], nil
		}
	}

	component := &models.GradeComponent{
		ClassID:   classID,
		Name:      importComponentName,
		IsVisible: true,
	}
	if err := s.components.Create(ctx, component); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create import component")
	}
	return component, nil
}
