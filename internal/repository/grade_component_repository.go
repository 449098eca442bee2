package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadhub/gradebook-api/internal/models"
)

// GradeComponentRepository handles grading component persistence.
type GradeComponentRepository struct {
	db *sqlx.DB
}

// NewGradeComponentRepository creates a new component repository.
func NewGradeComponentRepository(db *sqlx.DB) *GradeComponentRepository {
	return &GradeComponentRepository{db: db}
}

// ListByClass returns every component defined for a class.
func (r *GradeComponentRepository) ListByClass(ctx context.Context, classID string) ([]models.GradeComponent, error) {
	const query = `SELECT id, class_id, name, weight_percentage, is_attendance, is_visible, created_at, updated_at
        FROM grade_components WHERE class_id = $1 ORDER BY created_at`
	var components []models.GradeComponent
	if err := r.db.SelectContext(ctx, &components, query, classID); err != nil {
		return nil, fmt.Errorf("list components by class: %w", err)
	}
	return components, nil
}

// ListBySubjects returns components for every class teaching the subjects.
func (r *GradeComponentRepository) ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeComponent, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(subjectIDs))
	args := make([]interface{}, len(subjectIDs))
	for i, id := range subjectIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT gc.id, gc.class_id, gc.name, gc.weight_percentage, gc.is_attendance, gc.is_visible, gc.created_at, gc.updated_at, c.subject_id
        FROM grade_components gc
        JOIN classes c ON c.id = gc.class_id
        WHERE c.subject_id IN (%s)`, strings.Join(placeholders, ","))
	var components []models.GradeComponent
	if err := r.db.SelectContext(ctx, &components, query, args...); err != nil {
		return nil, fmt.Errorf("list components by subjects: %w", err)
	}
	return components, nil
}

// FindByID returns a single component.
func (r *GradeComponentRepository) FindByID(ctx context.Context, id string) (*models.GradeComponent, error) {
	const query = `SELECT id, class_id, name, weight_percentage, is_attendance, is_visible, created_at, updated_at
        FROM grade_components WHERE id = $1`
	var component models.GradeComponent
	if err := r.db.GetContext(ctx, &component, query, id); err != nil {
		return nil, err
	}
	return &component, nil
}

// Create persists a new component.
func (r *GradeComponentRepository) Create(ctx context.Context, component *models.GradeComponent) error {
	if component.ID == "" {
		component.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	component.CreatedAt = now
	component.UpdatedAt = now
	const query = `INSERT INTO grade_components (id, class_id, name, weight_percentage, is_attendance, is_visible, created_at, updated_at)
        VALUES (:id, :class_id, :name, :weight_percentage, :is_attendance, :is_visible, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, component); err != nil {
		return fmt.Errorf("create component: %w", err)
	}
	return nil
}

// Update persists changes to an existing component.
func (r *GradeComponentRepository) Update(ctx context.Context, component *models.GradeComponent) error {
	component.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grade_components SET name = :name, weight_percentage = :weight_percentage,
        is_attendance = :is_attendance, is_visible = :is_visible, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, component); err != nil {
		return fmt.Errorf("update component: %w", err)
	}
	return nil
}

// Delete removes a component and cascades to its entries at the DB level.
func (r *GradeComponentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM grade_components WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete component: %w", err)
	}
	return nil
}
