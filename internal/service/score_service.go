package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vhtran/scorekeeper-api/internal/grading"
	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
)

type scoreStore interface {
	FindByID(ctx context.Context, id string) (*models.ScoreRecord, error)
	Insert(ctx context.Context, record *models.ScoreRecord) error
	Save(ctx context.Context, record *models.ScoreRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ScoreFilter) ([]models.ScoreRecord, error)
	ClassAverage(ctx context.Context, className, subject string, year int, semester models.Semester) (float64, error)
}

type classAccessChecker interface {
	CanAccessClass(ctx context.Context, teacherID int64, className string, year int, semester models.Semester) (bool, error)
	IsAuthorizedForSubject(ctx context.Context, teacherID int64, className, subject string, year int, semester models.Semester) (bool, error)
	AccessibleClasses(ctx context.Context, teacherID int64, year int, semester models.Semester) ([]string, error)
}

type entryGate interface {
	IsEntryAllowed(ctx context.Context, className string, year int, semester models.Semester) (bool, error)
}

// CreateScoreRequest is a score submission payload. The requesting teacher is
// taken from the authenticated identity, never from the payload.
type CreateScoreRequest struct {
	StudentID       int64           `json:"student_id" validate:"required"`
	ClassID         int64           `json:"class_id"`
	ClassName       string          `json:"class_name" validate:"required"`
	Subject         string          `json:"subject" validate:"required"`
	AcademicYear    int             `json:"academic_year" validate:"required,gt=2000"`
	Semester        models.Semester `json:"semester" validate:"required"`
	ComponentScores []int           `json:"component_scores"`
	Midterm         int             `json:"midterm"`
	Final           int             `json:"final"`
	Comment         *string         `json:"comment"`
	StudentName     *string         `json:"student_name"`
	TeacherName     *string         `json:"teacher_name"`
}

// UpdateScoreRequest mutates the score values of an existing record. Identity
// fields are immutable; changing them would denote a different record.
type UpdateScoreRequest struct {
	ComponentScores []int   `json:"component_scores"`
	Midterm         int     `json:"midterm"`
	Final           int     `json:"final"`
	Comment         *string `json:"comment"`
}

// BatchUpdateItem pairs a record id with its new values.
type BatchUpdateItem struct {
	ID      string             `json:"id" validate:"required"`
	Payload UpdateScoreRequest `json:"payload"`
}

// BatchFailure captures one failed element of a batch mutation.
type BatchFailure struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	StudentID int64  `json:"student_id,omitempty"`
	Reason    string `json:"reason"`
}

// BatchResult partitions a batch into succeeded records and failures.
// Partial success is a first-class outcome, not an error.
type BatchResult struct {
	Succeeded []models.ScoreRecord `json:"succeeded"`
	Failures  []BatchFailure       `json:"failures,omitempty"`
}

// ScoreService orchestrates score mutations. Every create runs the full gate
// chain (class access, subject grant, open window); updates and deletes gate
// on ownership plus the window of the existing record. Checks fail fast: the
// first violated rule decides the error.
type ScoreService struct {
	scores    scoreStore
	authz     classAccessChecker
	gate      entryGate
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScoreService constructs a ScoreService. cache and metrics may be nil when
// the respective feature is disabled.
func NewScoreService(scores scoreStore, authz classAccessChecker, gate entryGate, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ScoreService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreService{scores: scores, authz: authz, gate: gate, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Create validates, authorizes and gates a new score record, derives its id
// and average, and inserts it. An existing id is a DuplicateError, never a
// silent overwrite.
func (s *ScoreService) Create(ctx context.Context, req CreateScoreRequest, teacherID int64) (*models.ScoreRecord, error) {
	record, err := s.create(ctx, req, teacherID)
	s.metrics.RecordScoreMutation("create", err == nil)
	return record, err
}

func (s *ScoreService) create(ctx context.Context, req CreateScoreRequest, teacherID int64) (*models.ScoreRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	if !req.Semester.Concrete() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "score semester must be 1 or 2")
	}
	if err := grading.ValidateScores(req.ComponentScores, req.Midterm, req.Final); err != nil {
		return nil, err
	}

	allowed, err := s.authz.CanAccessClass(ctx, teacherID, req.ClassName, req.AcademicYear, req.Semester)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("teacher %d is not assigned to class %s", teacherID, req.ClassName))
	}

	authorized, err := s.authz.IsAuthorizedForSubject(ctx, teacherID, req.ClassName, req.Subject, req.AcademicYear, req.Semester)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("teacher %d is not authorized for subject %s in class %s", teacherID, req.Subject, req.ClassName))
	}

	if err := s.requireOpenWindow(ctx, req.ClassName, req.AcademicYear, req.Semester); err != nil {
		return nil, err
	}

	record := &models.ScoreRecord{
		ID:              grading.ComputeID(teacherID, req.StudentID, req.ClassName, req.Subject, req.AcademicYear, req.Semester),
		TeacherID:       teacherID,
		StudentID:       req.StudentID,
		ClassID:         req.ClassID,
		ClassName:       req.ClassName,
		Subject:         req.Subject,
		AcademicYear:    req.AcademicYear,
		Semester:        req.Semester,
		ComponentScores: req.ComponentScores,
		Midterm:         req.Midterm,
		Final:           req.Final,
		Average:         grading.ComputeAverage(req.ComponentScores, req.Midterm, req.Final),
		Comment:         req.Comment,
		StudentName:     req.StudentName,
		TeacherName:     req.TeacherName,
	}
	if err := s.scores.Insert(ctx, record); err != nil {
		if errors.Is(err, appErrors.ErrDuplicate) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert score")
	}
	s.invalidateClassCache(ctx, record.ClassName)
	return record, nil
}

// Update recomputes and persists score values for a record owned by the
// requesting teacher while the record's window is open. Ownership is checked
// by raw teacher id equality; the grant was verified at creation time.
func (s *ScoreService) Update(ctx context.Context, id string, req UpdateScoreRequest, teacherID int64) (*models.ScoreRecord, error) {
	record, err := s.update(ctx, id, req, teacherID)
	s.metrics.RecordScoreMutation("update", err == nil)
	return record, err
}

func (s *ScoreService) update(ctx context.Context, id string, req UpdateScoreRequest, teacherID int64) (*models.ScoreRecord, error) {
	record, err := s.loadOwned(ctx, id, teacherID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOpenWindow(ctx, record.ClassName, record.AcademicYear, record.Semester); err != nil {
		return nil, err
	}
	if err := grading.ValidateScores(req.ComponentScores, req.Midterm, req.Final); err != nil {
		return nil, err
	}

	record.ComponentScores = req.ComponentScores
	record.Midterm = req.Midterm
	record.Final = req.Final
	record.Comment = req.Comment
	record.Average = grading.ComputeAverage(req.ComponentScores, req.Midterm, req.Final)

	if err := s.scores.Save(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "score not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save score")
	}
	s.invalidateClassCache(ctx, record.ClassName)
	return record, nil
}

// Delete removes a record under the same ownership and window gate as Update.
func (s *ScoreService) Delete(ctx context.Context, id string, teacherID int64) error {
	err := s.delete(ctx, id, teacherID)
	s.metrics.RecordScoreMutation("delete", err == nil)
	return err
}

func (s *ScoreService) delete(ctx context.Context, id string, teacherID int64) error {
	record, err := s.loadOwned(ctx, id, teacherID)
	if err != nil {
		return err
	}
	if err := s.requireOpenWindow(ctx, record.ClassName, record.AcademicYear, record.Semester); err != nil {
		return err
	}
	if err := s.scores.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "score not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete score")
	}
	s.invalidateClassCache(ctx, record.ClassName)
	return nil
}

// BatchCreate applies the full create gate to each element independently.
// One element's failure never aborts the others.
func (s *ScoreService) BatchCreate(ctx context.Context, reqs []CreateScoreRequest, teacherID int64) *BatchResult {
	result := &BatchResult{}
	for i, req := range reqs {
		record, err := s.Create(ctx, req, teacherID)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{Index: i, StudentID: req.StudentID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, *record)
	}
	return result
}

// BatchUpdate applies the update gate to each element independently.
func (s *ScoreService) BatchUpdate(ctx context.Context, items []BatchUpdateItem, teacherID int64) *BatchResult {
	result := &BatchResult{}
	for i, item := range items {
		if item.ID == "" {
			result.Failures = append(result.Failures, BatchFailure{Index: i, Reason: "missing score id"})
			continue
		}
		record, err := s.Update(ctx, item.ID, item.Payload, teacherID)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{Index: i, ID: item.ID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, *record)
	}
	return result
}

// GetByID returns a record the teacher owns or may access through a class
// grant.
func (s *ScoreService) GetByID(ctx context.Context, id string, teacherID int64) (*models.ScoreRecord, error) {
	record, err := s.scores.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "score not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load score")
	}
	if record.TeacherID != teacherID {
		allowed, err := s.authz.CanAccessClass(ctx, teacherID, record.ClassName, record.AcademicYear, record.Semester)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "score belongs to a class you are not assigned to")
		}
	}
	return record, nil
}

// ListByTeacher returns the teacher's own records.
func (s *ScoreService) ListByTeacher(ctx context.Context, teacherID int64) ([]models.ScoreRecord, error) {
	records, err := s.scores.List(ctx, models.ScoreFilter{TeacherID: teacherID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}
	return records, nil
}

// ListByClass returns a class's records for a teacher assigned to it.
func (s *ScoreService) ListByClass(ctx context.Context, teacherID int64, className string, year int, semester models.Semester) ([]models.ScoreRecord, error) {
	allowed, err := s.authz.CanAccessClass(ctx, teacherID, className, year, semester)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("teacher %d is not assigned to class %s", teacherID, className))
	}
	records, err := s.scores.List(ctx, models.ScoreFilter{ClassName: className, AcademicYear: year, Semester: semester})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores")
	}
	return records, nil
}

// ClassAverage aggregates stored averages for one class/subject tuple the
// teacher may access.
func (s *ScoreService) ClassAverage(ctx context.Context, teacherID int64, className, subject string, year int, semester models.Semester) (float64, error) {
	allowed, err := s.authz.CanAccessClass(ctx, teacherID, className, year, semester)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return 0, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("teacher %d is not assigned to class %s", teacherID, className))
	}
	cacheKey := classAverageCacheKey(className, subject, year, semester)
	var cached float64
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	avg, err := s.scores.ClassAverage(ctx, className, subject, year, semester)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate class average")
	}
	if err := s.cache.Set(ctx, cacheKey, avg, 0); err != nil {
		s.logger.Warn("failed to cache class average", zap.String("key", cacheKey), zap.Error(err))
	}
	return avg, nil
}

func (s *ScoreService) loadOwned(ctx context.Context, id string, teacherID int64) (*models.ScoreRecord, error) {
	record, err := s.scores.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "score not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load score")
	}
	if record.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only modify your own scores")
	}
	return record, nil
}

func classAverageCacheKey(className, subject string, year int, semester models.Semester) string {
	return fmt.Sprintf("scores:avg:%s:%s:%d:%s", grading.Fold(className), grading.Fold(subject), year, semester)
}

func (s *ScoreService) invalidateClassCache(ctx context.Context, className string) {
	if !s.cache.Enabled() {
		return
	}
	pattern := fmt.Sprintf("scores:avg:%s:*", grading.Fold(className))
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate class average cache", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (s *ScoreService) requireOpenWindow(ctx context.Context, className string, year int, semester models.Semester) error {
	open, err := s.gate.IsEntryAllowed(ctx, className, year, semester)
	if err != nil {
		return err
	}
	if !open {
		return appErrors.Clone(appErrors.ErrScheduleClosed, fmt.Sprintf("score entry is closed for class %s year %d semester %s", className, year, semester))
	}
	return nil
}
