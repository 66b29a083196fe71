package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vhtran/scorekeeper-api/internal/models"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
	"github.com/vhtran/scorekeeper-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered document ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

type csvRenderer interface {
	Render(sheet export.ScoreSheet) ([]byte, error)
}

type pdfRenderer interface {
	Render(sheet export.ScoreSheet) ([]byte, error)
}

// ExportService renders score records into downloadable documents. Teacher
// exports are bounded by the caller's grants; ExportAll has no such bound and
// must stay behind admin routes.
type ExportService struct {
	scores scoreStore
	authz  classAccessChecker
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(scores scoreStore, authz classAccessChecker, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{scores: scores, authz: authz, csv: csv, pdf: pdf, logger: logger}
}

// ExportTeacherScores renders every record owned by the teacher.
func (s *ExportService) ExportTeacherScores(ctx context.Context, teacherID int64, format ExportFormat) (*ExportFile, error) {
	records, err := s.scores.List(ctx, models.ScoreFilter{TeacherID: teacherID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores for export")
	}
	title := fmt.Sprintf("Scores of teacher %d", teacherID)
	return s.render(title, fmt.Sprintf("teacher_%d_scores", teacherID), records, format)
}

// ExportClassScores renders one class's records for a teacher assigned to it.
func (s *ExportService) ExportClassScores(ctx context.Context, teacherID int64, className string, year int, semester models.Semester, format ExportFormat) (*ExportFile, error) {
	allowed, err := s.authz.CanAccessClass(ctx, teacherID, className, year, semester)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("teacher %d is not assigned to class %s", teacherID, className))
	}
	records, err := s.scores.List(ctx, models.ScoreFilter{ClassName: className, AcademicYear: year, Semester: semester})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores for export")
	}
	title := fmt.Sprintf("Scores of class %s, %d semester %s", className, year, semester)
	return s.render(title, fmt.Sprintf("class_%s_scores", sanitizeFilename(className)), records, format)
}

// ExportAll renders every stored record. Route guards restrict this to
// administrators.
func (s *ExportService) ExportAll(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	records, err := s.scores.List(ctx, models.ScoreFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scores for export")
	}
	return s.render("All scores", "all_scores", records, format)
}

func (s *ExportService) render(title, baseName string, records []models.ScoreRecord, format ExportFormat) (*ExportFile, error) {
	sheet := export.BuildScoreSheet(title, records)
	timestamp := time.Now().UTC().Format("20060102_150405")

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.csv", baseName, timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(sheet)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s_%s.pdf", baseName, timestamp),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %s", format))
	}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
