package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/acadhub/gradebook-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGradeEntryRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeEntryRepository(db)

	score := 8.0
	max := 10.0
	rows := sqlmock.NewRows([]string{"id", "student_id", "component_id", "class_id", "score", "max_score",
		"attendance", "entry_type", "date_recorded", "created_at", "updated_at", "subject_id"}).
		AddRow("ge-1", "stu-1", "comp-1", "class-1", score, max, nil, models.EntryTypeManual,
			time.Now(), time.Now(), time.Now(), "sub-1")
	mock.ExpectQuery(`SELECT .+ FROM grade_entries ge\s+JOIN classes c ON c\.id = ge\.class_id\s+WHERE 1=1 AND ge\.student_id = \$1`).
		WithArgs("stu-1").
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), models.GradeEntryFilter{StudentID: "stu-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "sub-1", entries[0].SubjectID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeEntryRepositoryUpsertDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeEntryRepository(db)

	mock.ExpectExec(`INSERT INTO grade_entries .+ ON CONFLICT \(student_id, component_id, date_recorded\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	score := 9.0
	max := 10.0
	entry := models.GradeEntry{StudentID: "stu-1", ComponentID: "comp-1", ClassID: "class-1", Score: &score, MaxScore: &max}
	require.NoError(t, repo.Upsert(context.Background(), &entry))
	require.NotEmpty(t, entry.ID)
	require.Equal(t, models.EntryTypeManual, entry.EntryType)
	require.False(t, entry.DateRecorded.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeEntryRepositoryBulkUpsertRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeEntryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO grade_entries`).WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	score := 9.0
	max := 10.0
	entries := []models.GradeEntry{{StudentID: "stu-1", ComponentID: "comp-1", ClassID: "class-1", Score: &score, MaxScore: &max}}
	require.Error(t, repo.BulkUpsert(context.Background(), entries))
	require.NoError(t, mock.ExpectationsWereMet())
}
