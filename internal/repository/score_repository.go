package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint breaches.
const pqUniqueViolation = "23505"

// ScoreRepository provides persistence for score records. The record id is the
// primary key, so concurrent inserts of the same tuple resolve to exactly one
// winner at the database level.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

const scoreColumns = "id, teacher_id, student_id, class_id, class_name, subject, academic_year, semester, components, midterm, final, average, comment, student_name, teacher_name, created_at, updated_at"

// FindByID loads a score record by its composite key.
func (r *ScoreRepository) FindByID(ctx context.Context, id string) (*models.ScoreRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM scores WHERE id = $1", scoreColumns)
	var record models.ScoreRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	record.DecodeComponents()
	return &record, nil
}

// Insert stores a new score record. A primary-key collision surfaces as
// ErrDuplicate so callers never silently overwrite on create.
func (r *ScoreRepository) Insert(ctx context.Context, record *models.ScoreRecord) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	record.EncodeComponents()

	const query = `INSERT INTO scores (id, teacher_id, student_id, class_id, class_name, subject, academic_year, semester, components, midterm, final, average, comment, student_name, teacher_name, created_at, updated_at) VALUES (:id, :teacher_id, :student_id, :class_id, :class_name, :subject, :academic_year, :semester, :components, :midterm, :final, :average, :comment, :student_name, :teacher_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return appErrors.Clone(appErrors.ErrDuplicate, fmt.Sprintf("score %s already exists", record.ID))
		}
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Save persists mutable fields of an existing record. The id never changes.
func (r *ScoreRepository) Save(ctx context.Context, record *models.ScoreRecord) error {
	record.UpdatedAt = time.Now().UTC()
	record.EncodeComponents()

	const query = `UPDATE scores SET components = :components, midterm = :midterm, final = :final, average = :average, comment = :comment, student_name = :student_name, teacher_name = :teacher_name, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save score rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a score record by id.
func (r *ScoreRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete score rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns score records matching the filter.
func (r *ScoreRepository) List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreRecord, error) {
	base := "FROM scores WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.TeacherID != 0 {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.StudentID != 0 {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
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
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY class_name ASC, student_id ASC", scoreColumns, base)
	var records []models.ScoreRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	for i := range records {
		records[i].DecodeComponents()
	}
	return records, nil
}

// ClassAverage aggregates stored averages for one class/subject/year/semester.
func (r *ScoreRepository) ClassAverage(ctx context.Context, className, subject string, year int, semester models.Semester) (float64, error) {
	const query = `SELECT COALESCE(AVG(average), 0) FROM scores WHERE class_name = $1 AND subject = $2 AND academic_year = $3 AND semester = $4`
	var avg float64
	if err := r.db.GetContext(ctx, &avg, query, className, subject, year, semester); err != nil {
		return 0, fmt.Errorf("class average: %w", err)
	}
	return avg, nil
}
