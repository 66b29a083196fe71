package models

import "time"

// WindowState describes the lifecycle phase of a schedule window.
type WindowState string

const (
	WindowPending  WindowState = "PENDING"
	WindowOpen     WindowState = "OPEN"
	WindowLocked   WindowState = "LOCKED"
	WindowInactive WindowState = "INACTIVE"
)

// ScheduleWindow is the permitted write period for score entry in one
// (class, year, semester). Locking is one-way; a locked window never reopens.
type ScheduleWindow struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	ClassName    string    `db:"class_name" json:"class_name"`
	AcademicYear int       `db:"academic_year" json:"academic_year"`
	Semester     Semester  `db:"semester" json:"semester"`
	StartAt      time.Time `db:"start_at" json:"start_at"`
	EndAt        time.Time `db:"end_at" json:"end_at"`
	Active       bool      `db:"active" json:"active"`
	Locked       bool      `db:"locked" json:"locked"`
	Description  *string   `db:"description" json:"description,omitempty"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StateAt evaluates the window's state at the given instant.
func (w ScheduleWindow) StateAt(now time.Time) WindowState {
	if !w.Active {
		return WindowInactive
	}
	if w.Locked {
		return WindowLocked
	}
	if now.Before(w.StartAt) {
		return WindowPending
	}
	if now.After(w.EndAt) {
		// Past the end but not yet swept; entry is no longer permitted.
		return WindowLocked
	}
	return WindowOpen
}

// AllowsEntryAt reports whether score entry is permitted at the given instant.
func (w ScheduleWindow) AllowsEntryAt(now time.Time) bool {
	return w.StateAt(now) == WindowOpen
}

// Overlaps reports whether two time ranges intersect.
func (w ScheduleWindow) Overlaps(startAt, endAt time.Time) bool {
	return w.StartAt.Before(endAt) && startAt.Before(w.EndAt)
}
