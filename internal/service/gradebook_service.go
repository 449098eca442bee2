package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadhub/gradebook-api/internal/gradebook"
	"github.com/acadhub/gradebook-api/internal/models"
	"github.com/acadhub/gradebook-api/pkg/config"
	appErrors "github.com/acadhub/gradebook-api/pkg/errors"
)

type gradeEntryRepository interface {
	List(ctx context.Context, filter models.GradeEntryFilter) ([]models.GradeEntry, error)
	ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeEntry, error)
	FindByID(ctx context.Context, id string) (*models.GradeEntry, error)
	Upsert(ctx context.Context, entry *models.GradeEntry) error
	BulkUpsert(ctx context.Context, entries []models.GradeEntry) error
	Delete(ctx context.Context, id string) error
}

type gradeComponentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.GradeComponent, error)
	ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeComponent, error)
	FindByID(ctx context.Context, id string) (*models.GradeComponent, error)
	Create(ctx context.Context, component *models.GradeComponent) error
	Update(ctx context.Context, component *models.GradeComponent) error
	Delete(ctx context.Context, id string) error
}

type classReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type studentSubjectReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Subject, error)
}

// GradebookService owns grade entry and component writes plus the computed
// per-student grade views.
type GradebookService struct {
	entries    gradeEntryRepository
	components gradeComponentRepository
	classes    classReader
	subjects   studentSubjectReader
	cache      *CacheService
	metrics    *MetricsService
	calc       *gradebook.Calculator
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        config.GradebookConfig
}

// NewGradebookService constructs a GradebookService.
func NewGradebookService(
	entries gradeEntryRepository,
	components gradeComponentRepository,
	classes classReader,
	subjects studentSubjectReader,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.GradebookConfig,
) *GradebookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	policy := gradebook.Policy{
		LateCredit:  cfg.LateCredit,
		Denominator: gradebook.ParseDenominatorPolicy(cfg.DenominatorPolicy),
	}
	return &GradebookService{
		entries:    entries,
		components: components,
		classes:    classes,
		subjects:   subjects,
		cache:      cache,
		metrics:    metrics,
		calc:       gradebook.NewCalculator(policy),
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
	}
}

// Calculator exposes the configured engine to sibling services so every
// computation shares one policy.
func (s *GradebookService) Calculator() *gradebook.Calculator {
	return s.calc
}

// ListEntries returns grade entries matching the filter.
func (s *GradebookService) ListEntries(ctx context.Context, filter models.GradeEntryFilter) ([]models.GradeEntry, error) {
	entries, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade entries")
	}
	return entries, nil
}

// UpsertEntry records or replaces a single measurement in a class gradebook.
func (s *GradebookService) UpsertEntry(ctx context.Context, classID string, actor *models.JWTClaims, req models.UpsertGradeEntryRequest) (*models.GradeEntry, error) {
	if err := s.authorizeClassWrite(ctx, classID, actor); err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(ctx, classID, req)
	if err != nil {
		return nil, err
	}

	if err := s.entries.Upsert(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade entry")
	}

	s.invalidateComputed(ctx)
	return entry, nil
}

// BulkUpsert records a batch of measurements. In atomic mode any invalid row
// rejects the whole batch; in partial mode valid rows are applied and the
// rest reported back.
func (s *GradebookService) BulkUpsert(ctx context.Context, classID string, actor *models.JWTClaims, req models.BulkUpsertRequest) (*models.BulkUpsertResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}
	if err := s.authorizeClassWrite(ctx, classID, actor); err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = models.BulkModeAtomic
	}

	type indexedEntry struct {
		index int
		entry models.GradeEntry
	}
	valid := make([]indexedEntry, 0, len(req.Entries))
	result := &models.BulkUpsertResult{}
	for i, row := range req.Entries {
		entry, err := s.buildEntry(ctx, classID, row)
		if err != nil {
			if mode == models.BulkModeAtomic {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
					fmt.Sprintf("entry %d rejected", i))
			}
			result.Rejected = append(result.Rejected, models.BulkRejection{Index: i, Reason: err.Error()})
			continue
		}
		valid = append(valid, indexedEntry{index: i, entry: *entry})
	}

	if mode == models.BulkModeAtomic {
		entries := make([]models.GradeEntry, len(valid))
		for i, row := range valid {
			entries[i] = row.entry
		}
		if err := s.entries.BulkUpsert(ctx, entries); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade entries")
		}
		result.Accepted = len(entries)
	} else {
		for i := range valid {
			if err := s.entries.Upsert(ctx, &valid[i].entry); err != nil {
				// Rejections always point at the caller's row, not the filtered slice.
				result.Rejected = append(result.Rejected, models.BulkRejection{Index: valid[i].index, Reason: "write failed"})
				continue
			}
			result.Accepted++
		}
	}

	s.invalidateComputed(ctx)
	return result, nil
}

// DeleteEntry removes a single grade entry.
func (s *GradebookService) DeleteEntry(ctx context.Context, entryID string, actor *models.JWTClaims) error {
	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade entry")
	}
	if err := s.authorizeClassWrite(ctx, entry.ClassID, actor); err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, entryID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade entry")
	}
	s.invalidateComputed(ctx)
	return nil
}

// ListComponents returns the grading components of a class.
func (s *GradebookService) ListComponents(ctx context.Context, classID string) ([]models.GradeComponent, error) {
	components, err := s.components.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list components")
	}
	return components, nil
}

// CreateComponent adds a grading component to a class.
func (s *GradebookService) CreateComponent(ctx context.Context, classID string, actor *models.JWTClaims, req models.GradeComponentRequest) (*models.GradeComponent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid component payload")
	}
	if err := s.authorizeClassWrite(ctx, classID, actor); err != nil {
		return nil, err
	}

	component := &models.GradeComponent{
		ClassID:          classID,
		Name:             req.Name,
		WeightPercentage: req.WeightPercentage,
		IsAttendance:     req.IsAttendance,
		IsVisible:        req.IsVisible,
	}
	if err := s.components.Create(ctx, component); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create component")
	}

	s.warnOnWeightDrift(ctx, classID)
	s.invalidateComputed(ctx)
	return component, nil
}

// UpdateComponent changes an existing grading component.
func (s *GradebookService) UpdateComponent(ctx context.Context, componentID string, actor *models.JWTClaims, req models.GradeComponentRequest) (*models.GradeComponent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid component payload")
	}

	component, err := s.components.FindByID(ctx, componentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "component not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load component")
	}
	if err := s.authorizeClassWrite(ctx, component.ClassID, actor); err != nil {
		return nil, err
	}

	component.Name = req.Name
	component.WeightPercentage = req.WeightPercentage
	component.IsAttendance = req.IsAttendance
	component.IsVisible = req.IsVisible
	if err := s.components.Update(ctx, component); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update component")
	}

	s.warnOnWeightDrift(ctx, component.ClassID)
	s.invalidateComputed(ctx)
	return component, nil
}

// DeleteComponent removes a component and, through the schema, its entries.
func (s *GradebookService) DeleteComponent(ctx context.Context, componentID string, actor *models.JWTClaims) error {
	component, err := s.components.FindByID(ctx, componentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "component not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load component")
	}
	if err := s.authorizeClassWrite(ctx, component.ClassID, actor); err != nil {
		return err
	}
	if err := s.components.Delete(ctx, componentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete component")
	}
	s.invalidateComputed(ctx)
	return nil
}

// StudentGrades computes the detailed grade view for every subject a student
// is enrolled in, including the per-component breakdown.
func (s *GradebookService) StudentGrades(ctx context.Context, studentID string) ([]models.StudentSubjectGradeView, error) {
	subjects, err := s.subjects.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if len(subjects) == 0 {
		return []models.StudentSubjectGradeView{}, nil
	}

	subjectIDs := make([]string, len(subjects))
	for i, subject := range subjects {
		subjectIDs[i] = subject.ID
	}

	components, err := s.components.ListBySubjects(ctx, subjectIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list components")
	}
	rows, err := s.entries.List(ctx, models.GradeEntryFilter{StudentID: studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grade entries")
	}

	componentsBySubject := make(map[string][]models.GradeComponent, len(subjects))
	for _, component := range components {
		componentsBySubject[component.SubjectID] = append(componentsBySubject[component.SubjectID], component)
	}
	allEntries := engineEntries(rows)

	views := make([]models.StudentSubjectGradeView, 0, len(subjects))
	for _, subject := range subjects {
		engineComps := engineComponents(componentsBySubject[subject.ID])
		grade := s.calc.SubjectGrade(studentID, subject.ID, allEntries, engineComps)
		if s.metrics != nil {
			s.metrics.RecordGradeCalculation()
		}

		view := models.StudentSubjectGradeView{
			StudentID:   studentID,
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			SubjectCode: subject.Code,
			Percentage:  grade.Percentage,
			GPA:         grade.GPA,
			Passing:     grade.Percentage >= s.cfg.PassingGrade,
		}

		grouped := gradebook.GroupByComponent(filterSubject(allEntries, studentID, subject.ID))
		for _, component := range engineComps {
			entries := grouped[component.ComponentID]
			view.Components = append(view.Components, models.ComponentBreakdown{
				ComponentID:   component.ComponentID,
				ComponentName: component.Name,
				Weight:        component.Weight,
				Average:       s.calc.ComponentAverage(component, entries),
				EntryCount:    len(entries),
			})
		}

		if note := weightDriftNote(engineComps); note != "" {
			view.Notes = append(view.Notes, note)
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *GradebookService) buildEntry(ctx context.Context, classID string, req models.UpsertGradeEntryRequest) (*models.GradeEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade entry payload")
	}
	hasScore := req.Score != nil && req.MaxScore != nil
	if !hasScore && req.Attendance == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entry requires a score/max_score pair or an attendance mark")
	}

	component, err := s.components.FindByID(ctx, req.ComponentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "component not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load component")
	}
	if component.ClassID != classID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "component does not belong to this class")
	}

	entry := &models.GradeEntry{
		StudentID:   req.StudentID,
		ComponentID: req.ComponentID,
		ClassID:     classID,
		Score:       req.Score,
		MaxScore:    req.MaxScore,
		Attendance:  req.Attendance,
		EntryType:   models.EntryTypeManual,
	}
	if req.DateRecorded != nil {
		entry.DateRecorded = *req.DateRecorded
	}
	return entry, nil
}

func (s *GradebookService) authorizeClassWrite(ctx context.Context, classID string, actor *models.JWTClaims) error {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if actor != nil && actor.Role == models.RoleProfessor && class.ProfessorID != actor.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "class belongs to another professor")
	}
	return nil
}

func (s *GradebookService) warnOnWeightDrift(ctx context.Context, classID string) {
	components, err := s.components.ListByClass(ctx, classID)
	if err != nil {
		return
	}
	if note := weightDriftNote(engineComponents(components)); note != "" {
		s.logger.Warn("component weight drift", zap.String("class_id", classID), zap.String("detail", note))
	}
}

func (s *GradebookService) invalidateComputed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, "leaderboard:*")
	_ = s.cache.Invalidate(ctx, "dashboard:*")
}

func weightDriftNote(components []gradebook.Component) string {
	if len(components) == 0 {
		return ""
	}
	var total float64
	for _, component := range components {
		total += component.Weight
	}
	if total == 100 {
		return ""
	}
	return fmt.Sprintf("component weights sum to %.2f, expected 100", total)
}

// engineEntries converts stored rows into calculation inputs.
func engineEntries(rows []models.GradeEntry) []gradebook.Entry {
	entries := make([]gradebook.Entry, 0, len(rows))
	for _, row := range rows {
		var attendance *string
		if row.Attendance != nil {
			value := string(*row.Attendance)
			attendance = &value
		}
		entries = append(entries, gradebook.Entry{
			StudentID:    row.StudentID,
			SubjectID:    row.SubjectID,
			ComponentID:  row.ComponentID,
			Score:        row.Score,
			MaxScore:     row.MaxScore,
			Attendance:   attendance,
			DateRecorded: row.DateRecorded,
		})
	}
	return entries
}

// engineComponents converts stored components into calculation inputs,
// deduplicating and treating null weights as zero.
func engineComponents(rows []models.GradeComponent) []gradebook.Component {
	raw := make([]gradebook.RawComponent, 0, len(rows))
	for _, row := range rows {
		raw = append(raw, gradebook.RawComponent{
			ComponentID:      row.ID,
			ComponentName:    row.Name,
			WeightPercentage: row.WeightPercentage,
			IsAttendance:     row.IsAttendance,
		})
	}
	return gradebook.NormalizeComponents(raw)
}

func filterSubject(entries []gradebook.Entry, studentID, subjectID string) []gradebook.Entry {
	filtered := make([]gradebook.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.StudentID == studentID && entry.SubjectID == subjectID {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
