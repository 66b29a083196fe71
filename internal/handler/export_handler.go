package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/vhtran/scorekeeper-api/internal/service"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
	"github.com/vhtran/scorekeeper-api/pkg/response"
)

// ExportHandler exposes score export endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportMine godoc
// @Summary Export the caller's score records
// @Tags Exports
// @Produce text/csv
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /scores/export [get]
func (h *ExportHandler) ExportMine(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	file, err := h.exports.ExportTeacherScores(c.Request.Context(), teacherID, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// ExportClass godoc
// @Summary Export score records for a class
// @Tags Exports
// @Produce text/csv
// @Param className query string true "Class name"
// @Param year query int true "Academic year"
// @Param semester query string true "Semester (1, 2 or BOTH)"
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/export/class [get]
func (h *ExportHandler) ExportClass(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	className, year, semester, err := classQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.ExportClassScores(c.Request.Context(), teacherID, className, year, semester, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// ExportAll godoc
// @Summary Export every score record
// @Tags Exports
// @Produce text/csv
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/scores/export [get]
func (h *ExportHandler) ExportAll(c *gin.Context) {
	file, err := h.exports.ExportAll(c.Request.Context(), exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func exportFormat(c *gin.Context) service.ExportFormat {
	format := c.DefaultQuery("format", string(service.ExportFormatCSV))
	return service.ExportFormat(format)
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Payload)
}
