package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadhub/gradebook-api/internal/models"
)

const classColumns = `c.id, c.subject_id, c.professor_id, c.name, c.room, c.schedule_info, c.course_ref_id,
        c.created_at, c.updated_at, s.name AS subject_name`

// ClassRepository handles class section persistence.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID returns a single class with its subject name.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes c JOIN subjects s ON s.id = c.subject_id WHERE c.id = $1`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListByProfessor returns the classes a professor handles.
func (r *ClassRepository) ListByProfessor(ctx context.Context, professorID string) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes c JOIN subjects s ON s.id = c.subject_id
        WHERE c.professor_id = $1 ORDER BY s.name, c.name`, classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, professorID); err != nil {
		return nil, fmt.Errorf("list classes by professor: %w", err)
	}
	return classes, nil
}

// ListByStudent returns the classes a student is actively enrolled in.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes c
        JOIN subjects s ON s.id = c.subject_id
        JOIN enrollments e ON e.class_id = c.id
        WHERE e.student_id = $1 AND e.status = $2
        ORDER BY s.name, c.name`, classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, studentID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list classes by student: %w", err)
	}
	return classes, nil
}

// ListBySubject returns every class teaching a subject.
func (r *ClassRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes c JOIN subjects s ON s.id = c.subject_id
        WHERE c.subject_id = $1 ORDER BY c.name`, classColumns)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, subjectID); err != nil {
		return nil, fmt.Errorf("list classes by subject: %w", err)
	}
	return classes, nil
}

// FindByCourseRef resolves a class by its external classroom course id.
func (r *ClassRepository) FindByCourseRef(ctx context.Context, courseRefID string) (*models.Class, error) {
	query := fmt.Sprintf(`SELECT %s FROM classes c JOIN subjects s ON s.id = c.subject_id
        WHERE c.course_ref_id = $1`, classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, courseRefID); err != nil {
		return nil, err
	}
	return &class, nil
}
