// Package memory provides mutex-guarded in-memory implementations of the
// collaborator store contracts. It backs service tests and local development
// without external infrastructure; behaviour mirrors the SQL repositories,
// including duplicate-insert and missing-row semantics.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

// AssignmentStore keeps assignments in memory.
type AssignmentStore struct {
	mu          sync.RWMutex
	assignments map[string]models.Assignment
}

// NewAssignmentStore builds an empty assignment store.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{assignments: make(map[string]models.Assignment)}
}

// Create stores a new assignment grant.
func (s *AssignmentStore) Create(ctx context.Context, assignment *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	s.assignments[assignment.ID] = *assignment
	return nil
}

// FindActive returns active assignments matching the filter; a concrete
// requested semester also matches BOTH grants.
func (s *AssignmentStore) FindActive(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Assignment
	for _, a := range s.assignments {
		if !a.Active {
			continue
		}
		if filter.TeacherID != 0 && a.TeacherID != filter.TeacherID {
			continue
		}
		if filter.ClassID != 0 && a.ClassID != filter.ClassID {
			continue
		}
		if filter.ClassName != "" && a.ClassName != filter.ClassName {
			continue
		}
		if filter.Subject != "" && a.Subject != filter.Subject {
			continue
		}
		if filter.AcademicYear != 0 && a.AcademicYear != filter.AcademicYear {
			continue
		}
		if filter.Semester != "" && !a.Semester.Covers(filter.Semester) && filter.Semester != models.SemesterBoth {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ExistsActive reports whether an active assignment covers the tuple.
func (s *AssignmentStore) ExistsActive(ctx context.Context, teacherID int64, className, subject string, year int, semester models.Semester) (bool, error) {
	matches, err := s.FindActive(ctx, models.AssignmentFilter{
		TeacherID:    teacherID,
		ClassName:    className,
		Subject:      subject,
		AcademicYear: year,
		Semester:     semester,
	})
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// Deactivate soft-removes an assignment.
func (s *AssignmentStore) Deactivate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.Active = false
	a.UpdatedAt = time.Now().UTC()
	s.assignments[id] = a
	return nil
}

// ScoreStore keeps score records in memory keyed by their composite id.
type ScoreStore struct {
	mu     sync.RWMutex
	scores map[string]models.ScoreRecord
}

// NewScoreStore builds an empty score store.
func NewScoreStore() *ScoreStore {
	return &ScoreStore{scores: make(map[string]models.ScoreRecord)}
}

// FindByID loads a record or sql.ErrNoRows.
func (s *ScoreStore) FindByID(ctx context.Context, id string) (*models.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.scores[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	record.DecodeComponents()
	return &record, nil
}

// Insert stores a new record; an existing id yields ErrDuplicate. The check
// and write happen under one lock, matching the database uniqueness guarantee.
func (s *ScoreStore) Insert(ctx context.Context, record *models.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.scores[record.ID]; exists {
		return appErrors.Clone(appErrors.ErrDuplicate, fmt.Sprintf("score %s already exists", record.ID))
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	record.EncodeComponents()
	s.scores[record.ID] = *record
	return nil
}

// Save replaces an existing record.
func (s *ScoreStore) Save(ctx context.Context, record *models.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.scores[record.ID]; !exists {
		return sql.ErrNoRows
	}
	record.UpdatedAt = time.Now().UTC()
	record.EncodeComponents()
	s.scores[record.ID] = *record
	return nil
}

// Delete removes a record.
func (s *ScoreStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.scores[id]; !exists {
		return sql.ErrNoRows
	}
	delete(s.scores, id)
	return nil
}

// List returns records matching the filter.
func (s *ScoreStore) List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.ScoreRecord
	for _, record := range s.scores {
		if filter.TeacherID != 0 && record.TeacherID != filter.TeacherID {
			continue
		}
		if filter.StudentID != 0 && record.StudentID != filter.StudentID {
			continue
		}
		if filter.ClassName != "" && record.ClassName != filter.ClassName {
			continue
		}
		if filter.Subject != "" && record.Subject != filter.Subject {
			continue
		}
		if filter.AcademicYear != 0 && record.AcademicYear != filter.AcademicYear {
			continue
		}
		if filter.Semester != "" && record.Semester != filter.Semester {
			continue
		}
		record.DecodeComponents()
		result = append(result, record)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ClassAverage averages stored averages for the tuple; 0 when empty.
func (s *ScoreStore) ClassAverage(ctx context.Context, className, subject string, year int, semester models.Semester) (float64, error) {
	records, err := s.List(ctx, models.ScoreFilter{ClassName: className, Subject: subject, AcademicYear: year, Semester: semester})
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	sum := 0.0
	for _, record := range records {
		sum += record.Average
	}
	return sum / float64(len(records)), nil
}

// ScheduleStore keeps schedule windows in memory.
type ScheduleStore struct {
	mu      sync.RWMutex
	windows map[string]models.ScheduleWindow
}

// NewScheduleStore builds an empty schedule store.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{windows: make(map[string]models.ScheduleWindow)}
}

// Create stores a new window.
func (s *ScheduleStore) Create(ctx context.Context, window *models.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if window.CreatedAt.IsZero() {
		window.CreatedAt = now
	}
	window.UpdatedAt = now
	s.windows[window.ID] = *window
	return nil
}

// FindByID loads a window or sql.ErrNoRows.
func (s *ScheduleStore) FindByID(ctx context.Context, id string) (*models.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	window, ok := s.windows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &window, nil
}

// FindActiveWindow returns the most recent active window for the tuple.
func (s *ScheduleStore) FindActiveWindow(ctx context.Context, className string, year int, semester models.Semester) (*models.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.ScheduleWindow
	for _, window := range s.windows {
		if !window.Active || window.ClassName != className || window.AcademicYear != year || window.Semester != semester {
			continue
		}
		w := window
		if found == nil || w.StartAt.After(found.StartAt) {
			found = &w
		}
	}
	if found == nil {
		return nil, sql.ErrNoRows
	}
	return found, nil
}

// FindActiveOverlapping returns active windows intersecting the range.
func (s *ScheduleStore) FindActiveOverlapping(ctx context.Context, className string, year int, semester models.Semester, startAt, endAt time.Time) ([]models.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.ScheduleWindow
	for _, window := range s.windows {
		if !window.Active || window.ClassName != className || window.AcademicYear != year || window.Semester != semester {
			continue
		}
		if window.Overlaps(startAt, endAt) {
			result = append(result, window)
		}
	}
	return result, nil
}

// ListLockable returns active unlocked windows ending before the cutoff.
func (s *ScheduleStore) ListLockable(ctx context.Context, before time.Time) ([]models.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.ScheduleWindow
	for _, window := range s.windows {
		if window.Active && !window.Locked && window.EndAt.Before(before) {
			result = append(result, window)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// List returns windows for a year and optional semester.
func (s *ScheduleStore) List(ctx context.Context, year int, semester models.Semester) ([]models.ScheduleWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.ScheduleWindow
	for _, window := range s.windows {
		if year != 0 && window.AcademicYear != year {
			continue
		}
		if semester != "" && window.Semester != semester {
			continue
		}
		result = append(result, window)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Save replaces an existing window; the locked flag never clears.
func (s *ScheduleStore) Save(ctx context.Context, window *models.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.windows[window.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if existing.Locked {
		window.Locked = true
	}
	window.UpdatedAt = time.Now().UTC()
	s.windows[window.ID] = *window
	return nil
}

// Delete removes a window.
func (s *ScheduleStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.windows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.windows, id)
	return nil
}

// RosterStore keeps enrollments in memory.
type RosterStore struct {
	mu          sync.RWMutex
	enrollments []models.Enrollment
	students    map[int64]models.Student
}

// NewRosterStore builds an empty roster store.
func NewRosterStore() *RosterStore {
	return &RosterStore{students: make(map[int64]models.Student)}
}

// AddStudent registers a student and their enrollment.
func (s *RosterStore) AddStudent(student models.Student, classID int64, year int, semester models.Semester) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[student.ID] = student
	s.enrollments = append(s.enrollments, models.Enrollment{
		ID:           uuid.NewString(),
		StudentID:    student.ID,
		ClassID:      classID,
		AcademicYear: year,
		Semester:     semester,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
}

// IsStudentInClass reports active enrollment for the tuple.
func (s *RosterStore) IsStudentInClass(ctx context.Context, studentID, classID int64, year int, semester models.Semester) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.enrollments {
		if e.Active && e.StudentID == studentID && e.ClassID == classID && e.AcademicYear == year && e.Semester.Covers(semester) {
			return true, nil
		}
	}
	return false, nil
}

// ListClassStudents returns the active roster of a class.
func (s *RosterStore) ListClassStudents(ctx context.Context, classID int64, year int, semester models.Semester) ([]models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Student
	for _, e := range s.enrollments {
		if e.Active && e.ClassID == classID && e.AcademicYear == year && e.Semester.Covers(semester) {
			if student, ok := s.students[e.StudentID]; ok {
				result = append(result, student)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
