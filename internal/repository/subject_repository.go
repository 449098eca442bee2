package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadhub/gradebook-api/internal/models"
)

// SubjectRepository handles subject catalog persistence.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns every subject in the catalog.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, code, name, units, created_at, updated_at FROM subjects ORDER BY code`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// FindByID returns a single subject.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, code, name, units, created_at, updated_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListByStudent returns the subjects a student is actively enrolled in.
func (r *SubjectRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Subject, error) {
	const query = `SELECT DISTINCT s.id, s.code, s.name, s.units, s.created_at, s.updated_at
        FROM subjects s
        JOIN classes c ON c.subject_id = s.id
        JOIN enrollments e ON e.class_id = c.id
        WHERE e.student_id = $1 AND e.status = $2
        ORDER BY s.code`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, studentID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list subjects by student: %w", err)
	}
	return subjects, nil
}

// ListByProfessor returns the subjects a professor currently teaches.
func (r *SubjectRepository) ListByProfessor(ctx context.Context, professorID string) ([]models.Subject, error) {
	const query = `SELECT DISTINCT s.id, s.code, s.name, s.units, s.created_at, s.updated_at
        FROM subjects s
        JOIN classes c ON c.subject_id = s.id
        WHERE c.professor_id = $1
        ORDER BY s.code`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, professorID); err != nil {
		return nil, fmt.Errorf("list subjects by professor: %w", err)
	}
	return subjects, nil
}
