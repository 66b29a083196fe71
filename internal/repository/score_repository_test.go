package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

func newScoreMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scoreRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "teacher_id", "student_id", "class_id", "class_name", "subject",
		"academic_year", "semester", "components", "midterm", "final", "average",
		"comment", "student_name", "teacher_name", "created_at", "updated_at",
	})
}

func TestScoreRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	now := time.Now().UTC()
	rows := scoreRows().
		AddRow("7_42_10a2_tinhoc_2024_1", int64(7), int64(42), int64(1), "10A2", "Tin học",
			2024, "1", "8,9", 7, 8, 7.8, nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, student_id, class_id, class_name, subject, academic_year, semester, components, midterm, final, average, comment, student_name, teacher_name, created_at, updated_at FROM scores WHERE id = $1")).
		WithArgs("7_42_10a2_tinhoc_2024_1").
		WillReturnRows(rows)

	record, err := repo.FindByID(context.Background(), "7_42_10a2_tinhoc_2024_1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.TeacherID)
	assert.Equal(t, []int{8, 9}, record.ComponentScores)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM scores WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec("INSERT INTO scores").
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.ScoreRecord{
		ID:              "7_42_10a2_tinhoc_2024_1",
		TeacherID:       7,
		StudentID:       42,
		ClassName:       "10A2",
		Subject:         "Tin học",
		AcademicYear:    2024,
		Semester:        models.SemesterFirst,
		ComponentScores: []int{8, 9},
		Midterm:         7,
		Final:           8,
		Average:         7.8,
	}
	require.NoError(t, repo.Insert(context.Background(), record))
	assert.Equal(t, "8,9", record.Components)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryInsertDuplicate(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec("INSERT INTO scores").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Insert(context.Background(), &models.ScoreRecord{ID: "7_42_10a2_tinhoc_2024_1"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositorySaveMissing(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec("UPDATE scores SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Save(context.Background(), &models.ScoreRecord{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectExec("DELETE FROM scores").
		WithArgs("7_42_10a2_tinhoc_2024_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "7_42_10a2_tinhoc_2024_1"))

	mock.ExpectExec("DELETE FROM scores").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryListBuildsFilter(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	now := time.Now().UTC()
	rows := scoreRows().
		AddRow("7_42_10a2_tinhoc_2024_1", int64(7), int64(42), int64(1), "10A2", "Tin học",
			2024, "1", "8,9", 7, 8, 7.8, nil, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, student_id, class_id, class_name, subject, academic_year, semester, components, midterm, final, average, comment, student_name, teacher_name, created_at, updated_at FROM scores WHERE 1=1 AND teacher_id = $1 AND class_name = $2 AND academic_year = $3 AND semester = $4 ORDER BY class_name ASC, student_id ASC")).
		WithArgs(int64(7), "10A2", 2024, "1").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.ScoreFilter{
		TeacherID:    7,
		ClassName:    "10A2",
		AcademicYear: 2024,
		Semester:     models.SemesterFirst,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []int{8, 9}, records[0].ComponentScores)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreRepositoryClassAverage(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewScoreRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(average), 0) FROM scores WHERE class_name = $1 AND subject = $2 AND academic_year = $3 AND semester = $4")).
		WithArgs("10A2", "Tin học", 2024, "1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(8.9))

	avg, err := repo.ClassAverage(context.Background(), "10A2", "Tin học", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.InDelta(t, 8.9, avg, 0.0001)
	assert.NoError(t, mock.ExpectationsWereMet())
}
