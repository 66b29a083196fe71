package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhtran/scorekeeper-api/internal/models"
	"github.com/vhtran/scorekeeper-api/internal/store/memory"
)

func seedAssignment(t *testing.T, store *memory.AssignmentStore, a models.Assignment) models.Assignment {
	t.Helper()
	a.Active = true
	require.NoError(t, store.Create(context.Background(), &a))
	return a
}

func TestCanAccessClassSemesterCoverage(t *testing.T) {
	assignments := memory.NewAssignmentStore()
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterBoth, Role: models.RoleSubject,
	})
	svc := NewAuthorizationService(assignments, memory.NewScoreStore(), memory.NewRosterStore(), nil)

	for _, semester := range []models.Semester{models.SemesterFirst, models.SemesterSecond} {
		ok, err := svc.CanAccessClass(context.Background(), 7, "10A2", 2024, semester)
		require.NoError(t, err)
		assert.True(t, ok, "BOTH grant should cover semester %s", semester)
	}
}

func TestCanAccessClassConcreteGrantDoesNotCoverOther(t *testing.T) {
	assignments := memory.NewAssignmentStore()
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterFirst, Role: models.RoleSubject,
	})
	svc := NewAuthorizationService(assignments, memory.NewScoreStore(), memory.NewRosterStore(), nil)

	ok, err := svc.CanAccessClass(context.Background(), 7, "10A2", 2024, models.SemesterSecond)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanAccessClass(context.Background(), 7, "10A2", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessClassDeniesOtherTeacherAndYear(t *testing.T) {
	assignments := memory.NewAssignmentStore()
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterFirst, Role: models.RoleSubject,
	})
	svc := NewAuthorizationService(assignments, memory.NewScoreStore(), memory.NewRosterStore(), nil)

	ok, err := svc.CanAccessClass(context.Background(), 8, "10A2", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.False(t, ok, "another teacher must not inherit the grant")

	ok, err = svc.CanAccessClass(context.Background(), 7, "10A2", 2025, models.SemesterFirst)
	require.NoError(t, err)
	assert.False(t, ok, "grants are bound to the academic year")
}

func TestIsAuthorizedForSubject(t *testing.T) {
	assignments := memory.NewAssignmentStore()
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterFirst, Role: models.RoleSubject,
	})
	svc := NewAuthorizationService(assignments, memory.NewScoreStore(), memory.NewRosterStore(), nil)

	ok, err := svc.IsAuthorizedForSubject(context.Background(), 7, "10A2", "Tin học", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAuthorizedForSubject(context.Background(), 7, "10A2", "Toán", 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.False(t, ok, "class access does not imply every subject")
}

func TestCanModifyScoreFailsClosedOnMissingScore(t *testing.T) {
	svc := NewAuthorizationService(memory.NewAssignmentStore(), memory.NewScoreStore(), memory.NewRosterStore(), nil)

	ok, err := svc.CanModifyScore(context.Background(), 7, "7_42_10a2_tinhoc_2024_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanModifyScoreResolvesScoreTuple(t *testing.T) {
	assignments := memory.NewAssignmentStore()
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterFirst, Role: models.RoleSubject,
	})
	scores := memory.NewScoreStore()
	require.NoError(t, scores.Insert(context.Background(), &models.ScoreRecord{
		ID: "7_42_10a2_tinhoc_2024_1", TeacherID: 7, StudentID: 42,
		ClassName: "10A2", Subject: "Tin học", AcademicYear: 2024, Semester: models.SemesterFirst,
	}))
	svc := NewAuthorizationService(assignments, scores, memory.NewRosterStore(), nil)

	ok, err := svc.CanModifyScore(context.Background(), 7, "7_42_10a2_tinhoc_2024_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanModifyScore(context.Background(), 9, "7_42_10a2_tinhoc_2024_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessibleClassesDeduplicates(t *testing.T) {
	assignments := memory.NewAssignmentStore()
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterFirst, Role: models.RoleSubject,
	})
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Toán",
		AcademicYear: 2024, Semester: models.SemesterFirst, Role: models.RoleSubject,
	})
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 2, ClassName: "11B1", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterBoth, Role: models.RoleSubject,
	})
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 3, ClassName: "12C3", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterSecond, Role: models.RoleSubject,
	})
	svc := NewAuthorizationService(assignments, memory.NewScoreStore(), memory.NewRosterStore(), nil)

	classes, err := svc.AccessibleClasses(context.Background(), 7, 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"10A2", "11B1"}, classes)
}

func TestCanAccessStudentThroughRoster(t *testing.T) {
	assignments := memory.NewAssignmentStore()
	seedAssignment(t, assignments, models.Assignment{
		TeacherID: 7, ClassID: 1, ClassName: "10A2", Subject: "Tin học",
		AcademicYear: 2024, Semester: models.SemesterFirst, Role: models.RoleSubject,
	})
	roster := memory.NewRosterStore()
	roster.AddStudent(models.Student{ID: 42, FullName: "Nguyễn Văn An"}, 1, 2024, models.SemesterFirst)

	svc := NewAuthorizationService(assignments, memory.NewScoreStore(), roster, nil)

	ok, err := svc.CanAccessStudent(context.Background(), 7, 42, 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessStudent(context.Background(), 7, 99, 2024, models.SemesterFirst)
	require.NoError(t, err)
	assert.False(t, ok)
}
