package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

type assignmentFinder interface {
	FindActive(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

type scoreReader interface {
	FindByID(ctx context.Context, id string) (*models.ScoreRecord, error)
}

type rosterReader interface {
	IsStudentInClass(ctx context.Context, studentID, classID int64, year int, semester models.Semester) (bool, error)
}

// AuthorizationService resolves what a teacher may touch. Every answer is a
// point-in-time read of the assignment grants; nothing is cached between
// calls. There is no admin bypass here: elevated access is an explicit
// capability decided by the caller, never an absent check.
type AuthorizationService struct {
	assignments assignmentFinder
	scores      scoreReader
	roster      rosterReader
	logger      *zap.Logger
}

// NewAuthorizationService constructs an AuthorizationService.
func NewAuthorizationService(assignments assignmentFinder, scores scoreReader, roster rosterReader, logger *zap.Logger) *AuthorizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorizationService{
		assignments: assignments,
		scores:      scores,
		roster:      roster,
		logger:      logger,
	}
}

// CanAccessClass reports whether an active assignment grants the teacher the
// class for the year, with the grant's semester covering the requested one.
func (s *AuthorizationService) CanAccessClass(ctx context.Context, teacherID int64, className string, year int, semester models.Semester) (bool, error) {
	if !semester.Valid() {
		return false, appErrors.Clone(appErrors.ErrValidation, "invalid semester")
	}
	assignments, err := s.assignments.FindActive(ctx, models.AssignmentFilter{
		TeacherID:    teacherID,
		ClassName:    className,
		AcademicYear: year,
	})
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	for _, a := range assignments {
		if a.Semester.Covers(semester) {
			return true, nil
		}
	}
	return false, nil
}

// CanAccessClassByID is the same lookup keyed by class id, for callers that
// only hold the numeric key.
func (s *AuthorizationService) CanAccessClassByID(ctx context.Context, teacherID, classID int64) (bool, error) {
	assignments, err := s.assignments.FindActive(ctx, models.AssignmentFilter{
		TeacherID: teacherID,
		ClassID:   classID,
	})
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	return len(assignments) > 0, nil
}

// IsAuthorizedForSubject narrows CanAccessClass by subject equality.
func (s *AuthorizationService) IsAuthorizedForSubject(ctx context.Context, teacherID int64, className, subject string, year int, semester models.Semester) (bool, error) {
	if !semester.Valid() {
		return false, appErrors.Clone(appErrors.ErrValidation, "invalid semester")
	}
	assignments, err := s.assignments.FindActive(ctx, models.AssignmentFilter{
		TeacherID:    teacherID,
		ClassName:    className,
		Subject:      subject,
		AcademicYear: year,
	})
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	for _, a := range assignments {
		if a.Semester.Covers(semester) {
			return true, nil
		}
	}
	return false, nil
}

// CanModifyScore resolves the score's class tuple and delegates to
// CanAccessClass. A missing score fails closed.
func (s *AuthorizationService) CanModifyScore(ctx context.Context, teacherID int64, scoreID string) (bool, error) {
	record, err := s.scores.FindByID(ctx, scoreID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load score")
	}
	return s.CanAccessClass(ctx, teacherID, record.ClassName, record.AcademicYear, record.Semester)
}

// AccessibleClasses returns the de-duplicated class names the teacher holds
// active, semester-matching assignments for.
func (s *AuthorizationService) AccessibleClasses(ctx context.Context, teacherID int64, year int, semester models.Semester) ([]string, error) {
	if !semester.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid semester")
	}
	assignments, err := s.assignments.FindActive(ctx, models.AssignmentFilter{
		TeacherID:    teacherID,
		AcademicYear: year,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	seen := make(map[string]struct{}, len(assignments))
	classes := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if !a.Semester.Covers(semester) {
			continue
		}
		if _, dup := seen[a.ClassName]; dup {
			continue
		}
		seen[a.ClassName] = struct{}{}
		classes = append(classes, a.ClassName)
	}
	return classes, nil
}

// CanAccessStudent reports whether the student sits on the roster of any
// class the teacher is authorized for in that year/semester.
func (s *AuthorizationService) CanAccessStudent(ctx context.Context, teacherID, studentID int64, year int, semester models.Semester) (bool, error) {
	if !semester.Valid() {
		return false, appErrors.Clone(appErrors.ErrValidation, "invalid semester")
	}
	assignments, err := s.assignments.FindActive(ctx, models.AssignmentFilter{
		TeacherID:    teacherID,
		AcademicYear: year,
	})
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	for _, a := range assignments {
		if !a.Semester.Covers(semester) {
			continue
		}
		enrolled, err := s.roster.IsStudentInClass(ctx, studentID, a.ClassID, year, semester)
		if err != nil {
			return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check roster")
		}
		if enrolled {
			return true, nil
		}
	}
	return false, nil
}
