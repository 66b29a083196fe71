package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

type assignmentStore interface {
	FindActive(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	ExistsActive(ctx context.Context, teacherID int64, className, subject string, year int, semester models.Semester) (bool, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Deactivate(ctx context.Context, id string) error
}

// CreateAssignmentRequest grants a teacher one subject in one class.
type CreateAssignmentRequest struct {
	TeacherID    int64                 `json:"teacher_id" validate:"required"`
	ClassID      int64                 `json:"class_id"`
	ClassName    string                `json:"class_name" validate:"required"`
	Subject      string                `json:"subject" validate:"required"`
	AcademicYear int                   `json:"academic_year" validate:"required,gt=2000"`
	Semester     models.Semester       `json:"semester" validate:"required"`
	Role         models.AssignmentRole `json:"role" validate:"required"`
}

// AssignmentService manages teaching assignments.
type AssignmentService struct {
	assignments assignmentStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(assignments assignmentStore, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, validator: validate, logger: logger}
}

// Create grants an assignment. A second active grant for the same tuple is a
// conflict.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if !req.Semester.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester must be 1, 2 or BOTH")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown assignment role")
	}

	exists, err := s.assignments.ExistsActive(ctx, req.TeacherID, req.ClassName, req.Subject, req.AcademicYear, req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing assignments")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("teacher %d already holds %s in class %s", req.TeacherID, req.Subject, req.ClassName))
	}

	assignment := &models.Assignment{
		TeacherID:    req.TeacherID,
		ClassID:      req.ClassID,
		ClassName:    req.ClassName,
		Subject:      req.Subject,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
		Role:         req.Role,
		Active:       true,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// List returns active assignments matching the filter.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	assignments, err := s.assignments.FindActive(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Deactivate revokes a grant. Existing score records stay untouched.
func (s *AssignmentService) Deactivate(ctx context.Context, id string) error {
	if err := s.assignments.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate assignment")
	}
	return nil
}
