package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/acadhub/gradebook-api/internal/gradebook"
	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type dashboardClassLister interface {
	ListByProfessor(ctx context.Context, professorID string) ([]models.Class, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Class, error)
}

type dashboardStudentResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type dashboardAnnouncementLister interface {
	List(ctx context.Context, classID string, limit int) ([]models.Announcement, error)
}

type studentGradeViewer interface {
	StudentGrades(ctx context.Context, studentID string) ([]models.StudentSubjectGradeView, error)
}

type classGradeSummarizer interface {
	Summary(ctx context.Context, classID string, actor *models.JWTClaims) (*models.ClassGradeSummary, error)
}

// DashboardService assembles the role-aware landing payload, cached per user.
type DashboardService struct {
	classes        dashboardClassLister
	students       dashboardStudentResolver
	announcements  dashboardAnnouncementLister
	grades         studentGradeViewer
	classSummaries classGradeSummarizer
	cache          *CacheService
	logger         *zap.Logger
	cfg            config.DashboardConfig
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	classes dashboardClassLister,
	students dashboardStudentResolver,
	announcements dashboardAnnouncementLister,
	grades studentGradeViewer,
	classSummaries classGradeSummarizer,
	cache *CacheService,
	logger *zap.Logger,
	cfg config.DashboardConfig,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		classes:        classes,
		students:       students,
		announcements:  announcements,
		grades:         grades,
		classSummaries: classSummaries,
		cache:          cache,
		logger:         logger,
		cfg:            cfg,
	}
}

// Summary returns the dashboard for the authenticated user. The second
// return value reports whether the payload came from cache.
func (s *DashboardService) Summary(ctx context.Context, claims *models.JWTClaims) (*models.DashboardSummary, bool, error) {
	if claims == nil {
		return nil, false, appErrors.Clone(appErrors.ErrUnauthorized, "missing identity")
	}
	if !s.cfg.Enabled {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "dashboard is disabled")
	}

	key := fmt.Sprintf("dashboard:user:%s", claims.UserID)
	var cached models.DashboardSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	summary, err := s.build(ctx, claims)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, key, summary, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard", zap.String("user_id", claims.UserID), zap.Error(err))
	}
	return summary, false, nil
}

func (s *DashboardService) build(ctx context.Context, claims *models.JWTClaims) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{
		Role:        claims.Role,
		GeneratedAt: time.Now().UTC(),
	}

	announcements, err := s.announcements.List(ctx, "", 5)
	if err != nil {
		s.logger.Warn("failed to load announcements for dashboard", zap.Error(err))
	} else {
		summary.Announcements = announcements
	}

	switch claims.Role {
	case models.RoleStudent:
		return s.buildStudent(ctx, claims, summary)
	case models.RoleProfessor:
		classes, err := s.classes.ListByProfessor(ctx, claims.UserID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
		}
		summary.ClassCount = len(classes)
		summary.SubjectCount = countSubjects(classes)
		summary.ClassAverages = s.classAverages(ctx, claims, classes)
		return summary, nil
	default:
		return summary, nil
	}
}

func (s *DashboardService) buildStudent(ctx context.Context, claims *models.JWTClaims, summary *models.DashboardSummary) (*models.DashboardSummary, error) {
	student, err := s.students.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no student profile linked to this account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}

	classes, err := s.classes.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	summary.ClassCount = len(classes)
	summary.SubjectCount = countSubjects(classes)

	views, err := s.grades.StudentGrades(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	var gpaSum float64
	graded := 0
	for _, view := range views {
		summary.SubjectGrades = append(summary.SubjectGrades, models.StudentSubjectGrade{
			StudentID:  view.StudentID,
			SubjectID:  view.SubjectID,
			Percentage: view.Percentage,
			GPA:        view.GPA,
			Notes:      view.Notes,
		})
		if view.Percentage > 0 {
			gpaSum += view.GPA
			graded++
		}
	}
	if graded > 0 {
		overall := gpaSum / float64(graded)
		if overall < gradebook.BestGPA {
			overall = gradebook.BestGPA
		}
		summary.OverallGPA = &overall
	}
	return summary, nil
}

func (s *DashboardService) classAverages(ctx context.Context, claims *models.JWTClaims, classes []models.Class) []models.ClassAverage {
	if s.classSummaries == nil {
		return nil
	}
	averages := make([]models.ClassAverage, 0, len(classes))
	for _, class := range classes {
		sum, err := s.classSummaries.Summary(ctx, class.ID, claims)
		if err != nil {
			s.logger.Warn("failed to summarize class for dashboard",
				zap.String("class_id", class.ID), zap.Error(err))
			continue
		}
		averages = append(averages, models.ClassAverage{
			ClassID:      class.ID,
			ClassName:    class.Name,
			SubjectID:    class.SubjectID,
			Average:      sum.ClassAverage,
			StudentCount: len(sum.Students),
		})
	}
	return averages
}

func countSubjects(classes []models.Class) int {
	seen := make(map[string]struct{}, len(classes))
	for _, class := range classes {
		seen[class.SubjectID] = struct{}{}
	}
	return len(seen)
}
