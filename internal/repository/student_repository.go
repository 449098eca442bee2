package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/acadhub/gradebook-api/internal/models"
)

// StudentRepository handles student roster persistence.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the filter with total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := ` FROM students s WHERE 1=1`
	var args []interface{}
	if filter.Search != "" {
		base += fmt.Sprintf(" AND (s.full_name ILIKE $%d OR s.email ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Active != nil {
		base += fmt.Sprintf(" AND s.active = $%d", len(args)+1)
		args = append(args, *filter.Active)
	}
	if filter.ClassID != "" {
		base += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id AND e.class_id = $%d AND e.status = $%d)", len(args)+1, len(args)+2)
		args = append(args, filter.ClassID, models.EnrollmentStatusActive)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query := `SELECT s.id, s.user_id, s.full_name, s.email, s.year_level, s.active, s.created_at, s.updated_at` + base + " ORDER BY s.full_name"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, filter.Limit)
		if filter.Page > 1 {
			query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
			args = append(args, (filter.Page-1)*filter.Limit)
		}
	}

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

// FindByID returns a single student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, user_id, full_name, email, year_level, active, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail resolves a student by email, used by the classroom import to
// map platform identities onto the roster.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	const query = `SELECT id, user_id, full_name, email, year_level, active, created_at, updated_at
        FROM students WHERE LOWER(email) = LOWER($1)`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID resolves the student profile linked to a platform account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	const query = `SELECT id, user_id, full_name, email, year_level, active, created_at, updated_at
        FROM students WHERE user_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// ListBySubject returns every student actively enrolled in any class of a
// subject, in enrollment order.
func (r *StudentRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Student, error) {
	const query = `SELECT DISTINCT ON (s.id) s.id, s.user_id, s.full_name, s.email, s.year_level, s.active, s.created_at, s.updated_at, e.joined_at
        FROM students s
        JOIN enrollments e ON e.student_id = s.id
        JOIN classes c ON c.id = e.class_id
        WHERE c.subject_id = $1 AND e.status = $2
        ORDER BY s.id, e.joined_at`
	rows, err := r.db.QueryxContext(ctx, query, subjectID, models.EnrollmentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list students by subject: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var row struct {
			models.Student
			JoinedAt time.Time `db:"joined_at"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan student row: %w", err)
		}
		students = append(students, row.Student)
	}
	return students, rows.Err()
}

// ListIDsByClass returns the active roster of a class.
func (r *StudentRepository) ListIDsByClass(ctx context.Context, classID string) ([]string, error) {
	const query = `SELECT e.student_id FROM enrollments e WHERE e.class_id = $1 AND e.status = $2 ORDER BY e.joined_at`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, classID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return ids, nil
}

// ListIDsBySubject returns every student actively enrolled in any class of a
// subject, in enrollment order.
func (r *StudentRepository) ListIDsBySubject(ctx context.Context, subjectID string) ([]string, error) {
	const query = `SELECT DISTINCT ON (e.student_id) e.student_id
        FROM enrollments e
        JOIN classes c ON c.id = e.class_id
        WHERE c.subject_id = $1 AND e.status = $2
        ORDER BY e.student_id, e.joined_at`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, subjectID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list subject roster: %w", err)
	}
	return ids, nil
}
