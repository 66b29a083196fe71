package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

func TestAssignmentRepositoryFindActiveSemesterClause(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "teacher_id", "class_id", "class_name", "subject",
		"academic_year", "semester", "role", "active", "created_at", "updated_at",
	}).AddRow("assign-1", int64(7), int64(1), "10A2", "Tin học", 2024, "BOTH", "SUBJECT", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, class_id, class_name, subject, academic_year, semester, role, active, created_at, updated_at FROM assignments WHERE active = TRUE AND teacher_id = $1 AND (semester = $2 OR semester = 'BOTH') ORDER BY class_name ASC, subject ASC")).
		WithArgs(int64(7), "1").
		WillReturnRows(rows)

	assignments, err := repo.FindActive(context.Background(), models.AssignmentFilter{
		TeacherID: 7,
		Semester:  models.SemesterFirst,
	})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, models.SemesterBoth, assignments[0].Semester)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryExistsActive(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM assignments WHERE active = TRUE AND teacher_id = $1 AND class_name = $2 AND subject = $3 AND academic_year = $4 AND (semester = $5 OR semester = 'BOTH' OR $5 = 'BOTH'))")).
		WithArgs(int64(7), "10A2", "Tin học", 2024, "1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsActive(context.Background(), 7, "10A2", "Tin học", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	assignment := &models.Assignment{
		TeacherID:    7,
		ClassID:      1,
		ClassName:    "10A2",
		Subject:      "Tin học",
		AcademicYear: 2024,
		Semester:     models.SemesterFirst,
		Role:         models.RoleSubject,
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.False(t, assignment.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newScoreMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE assignments SET active = FALSE").
		WithArgs("assign-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Deactivate(context.Background(), "assign-1"))

	mock.ExpectExec("UPDATE assignments SET active = FALSE").
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Deactivate(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
