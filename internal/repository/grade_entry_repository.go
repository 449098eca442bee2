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

const gradeEntryColumns = `ge.id, ge.student_id, ge.component_id, ge.class_id, ge.score, ge.max_score,
        ge.attendance, ge.entry_type, ge.date_recorded, ge.created_at, ge.updated_at, c.subject_id`

// GradeEntryRepository handles grade entry persistence.
type GradeEntryRepository struct {
	db *sqlx.DB
}

// NewGradeEntryRepository creates a new grade entry repository.
func NewGradeEntryRepository(db *sqlx.DB) *GradeEntryRepository {
	return &GradeEntryRepository{db: db}
}

// List returns grade entries matching the filter.
func (r *GradeEntryRepository) List(ctx context.Context, filter models.GradeEntryFilter) ([]models.GradeEntry, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM grade_entries ge
        JOIN classes c ON c.id = ge.class_id
        WHERE 1=1`, gradeEntryColumns)
	var args []interface{}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND ge.student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.ClassID != "" {
		query += fmt.Sprintf(" AND ge.class_id = $%d", len(args)+1)
		args = append(args, filter.ClassID)
	}
	if filter.ComponentID != "" {
		query += fmt.Sprintf(" AND ge.component_id = $%d", len(args)+1)
		args = append(args, filter.ComponentID)
	}
	if filter.SubjectID != "" {
		query += fmt.Sprintf(" AND c.subject_id = $%d", len(args)+1)
		args = append(args, filter.SubjectID)
	}
	query += " ORDER BY ge.date_recorded DESC, ge.created_at DESC"
	var entries []models.GradeEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list grade entries: %w", err)
	}
	return entries, nil
}

// ListBySubjects returns all grade entries for the given subjects, keyed for
// leaderboard computation.
func (r *GradeEntryRepository) ListBySubjects(ctx context.Context, subjectIDs []string) ([]models.GradeEntry, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(subjectIDs))
	args := make([]interface{}, len(subjectIDs))
	for i, id := range subjectIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s
        FROM grade_entries ge
        JOIN classes c ON c.id = ge.class_id
        WHERE c.subject_id IN (%s)`, gradeEntryColumns, strings.Join(placeholders, ","))
	var entries []models.GradeEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list grade entries by subjects: %w", err)
	}
	return entries, nil
}

// FindByID returns a single grade entry.
func (r *GradeEntryRepository) FindByID(ctx context.Context, id string) (*models.GradeEntry, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM grade_entries ge
        JOIN classes c ON c.id = ge.class_id
        WHERE ge.id = $1`, gradeEntryColumns)
	var entry models.GradeEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert inserts or updates a grade entry.
func (r *GradeEntryRepository) Upsert(ctx context.Context, entry *models.GradeEntry) error {
	prepareEntry(entry)
	const query = `INSERT INTO grade_entries (id, student_id, component_id, class_id, score, max_score, attendance, entry_type, date_recorded, created_at, updated_at)
        VALUES (:id, :student_id, :component_id, :class_id, :score, :max_score, :attendance, :entry_type, :date_recorded, :created_at, :updated_at)
        ON CONFLICT (student_id, component_id, date_recorded)
        DO UPDATE SET score = EXCLUDED.score, max_score = EXCLUDED.max_score, attendance = EXCLUDED.attendance,
            entry_type = EXCLUDED.entry_type, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("upsert grade entry: %w", err)
	}
	return nil
}

// BulkUpsert inserts or updates multiple entries in a transaction.
func (r *GradeEntryRepository) BulkUpsert(ctx context.Context, entries []models.GradeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range entries {
		prepareEntry(&entries[i])
		const query = `INSERT INTO grade_entries (id, student_id, component_id, class_id, score, max_score, attendance, entry_type, date_recorded, created_at, updated_at)
            VALUES (:id, :student_id, :component_id, :class_id, :score, :max_score, :attendance, :entry_type, :date_recorded, :created_at, :updated_at)
            ON CONFLICT (student_id, component_id, date_recorded)
            DO UPDATE SET score = EXCLUDED.score, max_score = EXCLUDED.max_score, attendance = EXCLUDED.attendance,
                entry_type = EXCLUDED.entry_type, updated_at = EXCLUDED.updated_at`
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("bulk upsert grade entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grade entries: %w", err)
	}
	return nil
}

// Delete removes a grade entry by id.
func (r *GradeEntryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM grade_entries WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete grade entry: %w", err)
	}
	return nil
}

func prepareEntry(entry *models.GradeEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.DateRecorded.IsZero() {
		entry.DateRecorded = now
	}
	if entry.EntryType == "" {
		entry.EntryType = models.EntryTypeManual
	}
	entry.UpdatedAt = now
}
