package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

type scheduleStore interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleWindow, error)
	FindActiveWindow(ctx context.Context, className string, year int, semester models.Semester) (*models.ScheduleWindow, error)
	FindActiveOverlapping(ctx context.Context, className string, year int, semester models.Semester, startAt, endAt time.Time) ([]models.ScheduleWindow, error)
	ListLockable(ctx context.Context, before time.Time) ([]models.ScheduleWindow, error)
	List(ctx context.Context, year int, semester models.Semester) ([]models.ScheduleWindow, error)
	Create(ctx context.Context, window *models.ScheduleWindow) error
	Save(ctx context.Context, window *models.ScheduleWindow) error
	Delete(ctx context.Context, id string) error
}

// CreateWindowRequest describes a new score-entry window.
type CreateWindowRequest struct {
	Name         string          `json:"name" validate:"required"`
	ClassName    string          `json:"class_name" validate:"required"`
	AcademicYear int             `json:"academic_year" validate:"required,gt=2000"`
	Semester     models.Semester `json:"semester" validate:"required"`
	StartAt      time.Time       `json:"start_at" validate:"required"`
	EndAt        time.Time       `json:"end_at" validate:"required"`
	Description  *string         `json:"description"`
	CreatedBy    string          `json:"-"`
}

// UpdateWindowRequest mutates an existing window's name and time range.
type UpdateWindowRequest struct {
	Name        string    `json:"name" validate:"required"`
	StartAt     time.Time `json:"start_at" validate:"required"`
	EndAt       time.Time `json:"end_at" validate:"required"`
	Description *string   `json:"description"`
}

// ScheduleService gates score mutations on time-boxed entry windows and owns
// the lock sweep. Window state is re-evaluated on every call against the
// injected clock; nothing is cached.
type ScheduleService struct {
	windows   scheduleStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleService constructs a ScheduleService. A nil clock defaults to
// time.Now in UTC.
func NewScheduleService(windows scheduleStore, validate *validator.Validate, logger *zap.Logger, now func() time.Time) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ScheduleService{windows: windows, validator: validate, logger: logger, now: now}
}

// IsEntryAllowed reports whether the active window for the tuple is open
// right now. Absence of a window means entry is not allowed.
func (s *ScheduleService) IsEntryAllowed(ctx context.Context, className string, year int, semester models.Semester) (bool, error) {
	window, err := s.windows.FindActiveWindow(ctx, className, year, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule window")
	}
	return window.AllowsEntryAt(s.now()), nil
}

// FindActiveWindow returns the active window for the tuple.
func (s *ScheduleService) FindActiveWindow(ctx context.Context, className string, year int, semester models.Semester) (*models.ScheduleWindow, error) {
	window, err := s.windows.FindActiveWindow(ctx, className, year, semester)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no active window for class %s year %d semester %s", className, year, semester))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule window")
	}
	return window, nil
}

// List returns windows for a year and optional semester.
func (s *ScheduleService) List(ctx context.Context, year int, semester models.Semester) ([]models.ScheduleWindow, error) {
	if semester != "" && !semester.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid semester")
	}
	windows, err := s.windows.List(ctx, year, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list windows")
	}
	return windows, nil
}

// CreateWindow stores a new active window after overlap validation.
func (s *ScheduleService) CreateWindow(ctx context.Context, req CreateWindowRequest) (*models.ScheduleWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid window payload")
	}
	if !req.Semester.Concrete() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "window semester must be 1 or 2")
	}
	if !req.StartAt.Before(req.EndAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "window must have a positive duration")
	}

	overlapping, err := s.windows.FindActiveOverlapping(ctx, req.ClassName, req.AcademicYear, req.Semester, req.StartAt, req.EndAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check window overlap")
	}
	if len(overlapping) > 0 {
		return nil, appErrors.Clone(appErrors.ErrOverlap, fmt.Sprintf("overlapping window exists for class %s year %d semester %s", req.ClassName, req.AcademicYear, req.Semester))
	}

	window := &models.ScheduleWindow{
		Name:         req.Name,
		ClassName:    req.ClassName,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		Active:       true,
		Locked:       false,
		Description:  req.Description,
		CreatedBy:    req.CreatedBy,
	}
	if err := s.windows.Create(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create window")
	}
	return window, nil
}

// UpdateWindow adjusts a window's name, range and description. Locked windows
// are immutable.
func (s *ScheduleService) UpdateWindow(ctx context.Context, id string, req UpdateWindowRequest) (*models.ScheduleWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid window payload")
	}
	if !req.StartAt.Before(req.EndAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "window must have a positive duration")
	}
	window, err := s.loadWindow(ctx, id)
	if err != nil {
		return nil, err
	}
	if window.Locked {
		return nil, appErrors.Clone(appErrors.ErrConflict, "window is locked")
	}

	overlapping, err := s.windows.FindActiveOverlapping(ctx, window.ClassName, window.AcademicYear, window.Semester, req.StartAt, req.EndAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check window overlap")
	}
	for _, other := range overlapping {
		if other.ID != window.ID {
			return nil, appErrors.Clone(appErrors.ErrOverlap, fmt.Sprintf("overlapping window exists for class %s year %d semester %s", window.ClassName, window.AcademicYear, window.Semester))
		}
	}

	window.Name = req.Name
	window.StartAt = req.StartAt
	window.EndAt = req.EndAt
	window.Description = req.Description
	if err := s.windows.Save(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save window")
	}
	return window, nil
}

// LockWindow locks a window manually, even before its end time. Locking is
// idempotent and identical to a sweep-induced lock.
func (s *ScheduleService) LockWindow(ctx context.Context, id string) (*models.ScheduleWindow, error) {
	window, err := s.loadWindow(ctx, id)
	if err != nil {
		return nil, err
	}
	if window.Locked {
		return window, nil
	}
	window.Locked = true
	if err := s.windows.Save(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock window")
	}
	return window, nil
}

// DeleteWindow removes a window. Scores written while it was open stay valid.
func (s *ScheduleService) DeleteWindow(ctx context.Context, id string) error {
	if err := s.windows.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "window not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete window")
	}
	return nil
}

// SweepAndLock locks every active, unlocked window that ended before now.
// It is idempotent and never fails the caller: a window whose save fails is
// logged and retried on the next sweep cycle. Returns the number locked.
func (s *ScheduleService) SweepAndLock(ctx context.Context, now time.Time) int {
	windows, err := s.windows.ListLockable(ctx, now)
	if err != nil {
		s.logger.Error("sweep: failed to list lockable windows", zap.Error(err))
		return 0
	}
	locked := 0
	for i := range windows {
		window := windows[i]
		window.Locked = true
		if err := s.windows.Save(ctx, &window); err != nil {
			s.logger.Error("sweep: failed to lock window",
				zap.String("window_id", window.ID),
				zap.String("class_name", window.ClassName),
				zap.Error(err))
			continue
		}
		locked++
		s.logger.Info("sweep: locked expired window",
			zap.String("window_id", window.ID),
			zap.String("class_name", window.ClassName),
			zap.Int("academic_year", window.AcademicYear),
			zap.String("semester", string(window.Semester)))
	}
	return locked
}

func (s *ScheduleService) loadWindow(ctx context.Context, id string) (*models.ScheduleWindow, error) {
	window, err := s.windows.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "window not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load window")
	}
	return window, nil
}
