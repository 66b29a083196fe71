package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vhtran/scorekeeper-api/internal/models"
)

// ScheduleWindowRepository provides persistence for score-entry windows.
type ScheduleWindowRepository struct {
	db *sqlx.DB
}

// NewScheduleWindowRepository creates a new schedule window repository.
func NewScheduleWindowRepository(db *sqlx.DB) *ScheduleWindowRepository {
	return &ScheduleWindowRepository{db: db}
}

const windowColumns = "id, name, class_name, academic_year, semester, start_at, end_at, active, locked, description, created_by, created_at, updated_at"

// FindByID loads a window by id.
func (r *ScheduleWindowRepository) FindByID(ctx context.Context, id string) (*models.ScheduleWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_windows WHERE id = $1", windowColumns)
	var window models.ScheduleWindow
	if err := r.db.GetContext(ctx, &window, query, id); err != nil {
		return nil, err
	}
	return &window, nil
}

// FindActiveWindow returns the active window for a class/year/semester tuple,
// or sql.ErrNoRows when none exists.
func (r *ScheduleWindowRepository) FindActiveWindow(ctx context.Context, className string, year int, semester models.Semester) (*models.ScheduleWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_windows WHERE active = TRUE AND class_name = $1 AND academic_year = $2 AND semester = $3 ORDER BY start_at DESC LIMIT 1", windowColumns)
	var window models.ScheduleWindow
	if err := r.db.GetContext(ctx, &window, query, className, year, semester); err != nil {
		return nil, err
	}
	return &window, nil
}

// FindActiveOverlapping returns active windows for the tuple whose time range
// intersects [startAt, endAt).
func (r *ScheduleWindowRepository) FindActiveOverlapping(ctx context.Context, className string, year int, semester models.Semester, startAt, endAt time.Time) ([]models.ScheduleWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_windows WHERE active = TRUE AND class_name = $1 AND academic_year = $2 AND semester = $3 AND start_at < $5 AND end_at > $4", windowColumns)
	var windows []models.ScheduleWindow
	if err := r.db.SelectContext(ctx, &windows, query, className, year, semester, startAt, endAt); err != nil {
		return nil, fmt.Errorf("find overlapping windows: %w", err)
	}
	return windows, nil
}

// ListLockable returns active, unlocked windows that ended before the cutoff.
func (r *ScheduleWindowRepository) ListLockable(ctx context.Context, before time.Time) ([]models.ScheduleWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_windows WHERE active = TRUE AND locked = FALSE AND end_at < $1", windowColumns)
	var windows []models.ScheduleWindow
	if err := r.db.SelectContext(ctx, &windows, query, before); err != nil {
		return nil, fmt.Errorf("list lockable windows: %w", err)
	}
	return windows, nil
}

// List returns windows filtered by year and optionally semester.
func (r *ScheduleWindowRepository) List(ctx context.Context, year int, semester models.Semester) ([]models.ScheduleWindow, error) {
	base := fmt.Sprintf("SELECT %s FROM schedule_windows WHERE 1=1", windowColumns)
	args := []interface{}{}
	if year != 0 {
		args = append(args, year)
		base += fmt.Sprintf(" AND academic_year = $%d", len(args))
	}
	if semester != "" {
		args = append(args, semester)
		base += fmt.Sprintf(" AND semester = $%d", len(args))
	}
	base += " ORDER BY class_name ASC, start_at ASC"
	var windows []models.ScheduleWindow
	if err := r.db.SelectContext(ctx, &windows, base, args...); err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return windows, nil
}

// Create stores a new window.
func (r *ScheduleWindowRepository) Create(ctx context.Context, window *models.ScheduleWindow) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if window.CreatedAt.IsZero() {
		window.CreatedAt = now
	}
	window.UpdatedAt = now

	const query = `INSERT INTO schedule_windows (id, name, class_name, academic_year, semester, start_at, end_at, active, locked, description, created_by, created_at, updated_at) VALUES (:id, :name, :class_name, :academic_year, :semester, :start_at, :end_at, :active, :locked, :description, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	return nil
}

// Save persists window mutations. The locked flag only ever moves false->true
// through this path; the WHERE clause lets a concurrent sweep win harmlessly.
func (r *ScheduleWindowRepository) Save(ctx context.Context, window *models.ScheduleWindow) error {
	window.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_windows SET name = :name, start_at = :start_at, end_at = :end_at, active = :active, locked = (locked OR :locked), description = :description, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, window)
	if err != nil {
		return fmt.Errorf("save window: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save window rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a window. Previously written scores stay valid.
func (r *ScheduleWindowRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete window rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
