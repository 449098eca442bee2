package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/acadhub/gradebook-api/internal/gradebook"
	"github.com/acadhub/gradebook-api/internal/models"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type classStudentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

type classEntryLister interface {
	List(ctx context.Context, filter models.GradeEntryFilter) ([]models.GradeEntry, error)
}

type classComponentLister interface {
	ListByClass(ctx context.Context, classID string) ([]models.GradeComponent, error)
}

// ClassService builds the per-class gradebook view: roster-wide average plus
// per-student standings.
type ClassService struct {
	classes    classReader
	students   classStudentLister
	entries    classEntryLister
	components classComponentLister
	calc       *gradebook.Calculator
	logger     *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(
	classes classReader,
	students classStudentLister,
	entries classEntryLister,
	components classComponentLister,
	calc *gradebook.Calculator,
	logger *zap.Logger,
) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = gradebook.NewCalculator(gradebook.DefaultPolicy())
	}
	return &ClassService{
		classes:    classes,
		students:   students,
		entries:    entries,
		components: components,
		calc:       calc,
		logger:     logger,
	}
}

// Get returns the class record.
func (s *ClassService) Get(ctx context.Context, classID string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Summary computes the class average and per-student standings. Every
// rostered student appears in the response; students without recorded work
// carry the failing defaults and no rank, yet still lower the class average.
func (s *ClassService) Summary(ctx context.Context, classID string, actor *models.JWTClaims) (*models.ClassGradeSummary, error) {
	class, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Role == models.RoleProfessor && class.ProfessorID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "class belongs to another professor")
	}

	roster, _, err := s.students.List(ctx, models.StudentFilter{ClassID: classID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	rows, err := s.entries.List(ctx, models.GradeEntryFilter{ClassID: classID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade entries")
	}
	componentRows, err := s.components.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list components")
	}

	entries := engineEntries(rows)
	components := engineComponents(componentRows)

	rosterIDs := make([]string, len(roster))
	for i, student := range roster {
		rosterIDs[i] = student.ID
	}

	ranked := s.calc.SubjectRankings(class.SubjectID, rosterIDs, entries, components)
	ranks := make(map[string]int, len(ranked))
	for _, grade := range ranked {
		ranks[grade.StudentID] = grade.Rank
	}

	summary := &models.ClassGradeSummary{
		ClassID:      classID,
		SubjectID:    class.SubjectID,
		ClassAverage: s.calc.ClassAverage(rosterIDs, entries, components),
		Students:     make([]models.StudentSubjectGrade, 0, len(roster)),
	}

	for _, student := range roster {
		grade := s.calc.SubjectGrade(student.ID, class.SubjectID, entries, components)
		row := models.StudentSubjectGrade{
			StudentID:   student.ID,
			StudentName: student.FullName,
			SubjectID:   class.SubjectID,
			Percentage:  grade.Percentage,
			GPA:         grade.GPA,
		}
		if rank, ok := ranks[student.ID]; ok {
			row.Rank = &rank
		}
		summary.Students = append(summary.Students, row)
	}
	return summary, nil
}
