package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

// RosterRepository answers class membership questions from enrollments.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository creates a new roster repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// IsStudentInClass reports whether the student has an active enrollment in the
// class for the year/semester.
func (r *RosterRepository) IsStudentInClass(ctx context.Context, studentID, classID int64, year int, semester models.Semester) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE active = TRUE AND student_id = $1 AND class_id = $2 AND academic_year = $3 AND (semester = $4 OR semester = 'BOTH'))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, classID, year, semester); err != nil {
		return false, fmt.Errorf("check roster membership: %w", err)
	}
	return exists, nil
}

// ListClassStudents returns the active roster of a class.
func (r *RosterRepository) ListClassStudents(ctx context.Context, classID int64, year int, semester models.Semester) ([]models.Student, error) {
	const query = `SELECT s.id, s.full_name, s.email, s.created_at, s.updated_at FROM students s JOIN enrollments e ON e.student_id = s.id WHERE e.active = TRUE AND e.class_id = $1 AND e.academic_year = $2 AND (e.semester = $3 OR e.semester = 'BOTH') ORDER BY s.full_name ASC`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, classID, year, semester); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return students, nil
}
