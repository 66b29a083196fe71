package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

// AssignmentRepository provides persistence for teacher-class assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = "id, teacher_id, class_id, class_name, subject, academic_year, semester, role, active, created_at, updated_at"

// FindActive returns active assignments matching the filter. A requested
// concrete semester also matches BOTH grants; semester narrowing beyond that
// is the resolver's job.
func (r *AssignmentRepository) FindActive(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	base := "FROM assignments WHERE active = TRUE"
	var conditions []string
	var args []interface{}

	if filter.TeacherID != 0 {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.ClassID != 0 {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.ClassName != "" {
		conditions = append(conditions, fmt.Sprintf("class_name = $%d", len(args)+1))
		args = append(args, filter.ClassName)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.AcademicYear != 0 {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("(semester = $%d OR semester = 'BOTH')", len(args)+1))
		args = append(args, filter.Semester)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY class_name ASC, subject ASC", assignmentColumns, base)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("find active assignments: %w", err)
	}
	return assignments, nil
}

// ExistsActive reports whether an active assignment already covers the tuple.
func (r *AssignmentRepository) ExistsActive(ctx context.Context, teacherID int64, className, subject string, year int, semester models.Semester) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM assignments WHERE active = TRUE AND teacher_id = $1 AND class_name = $2 AND subject = $3 AND academic_year = $4 AND (semester = $5 OR semester = 'BOTH' OR $5 = 'BOTH'))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teacherID, className, subject, year, semester); err != nil {
		return false, fmt.Errorf("check assignment existence: %w", err)
	}
	return exists, nil
}

// Create stores a new assignment grant.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO assignments (id, teacher_id, class_id, class_name, subject, academic_year, semester, role, active, created_at, updated_at) VALUES (:id, :teacher_id, :class_id, :class_name, :subject, :academic_year, :semester, :role, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Deactivate soft-removes an assignment; referenced scores keep their history.
func (r *AssignmentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE assignments SET active = FALSE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
