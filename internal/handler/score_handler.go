package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vhtran/scorekeeper-api/internal/models"
	"github.com/vhtran/scorekeeper-api/internal/service"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
	"github.com/vhtran/scorekeeper-api/pkg/response"
)

// ScoreHandler exposes score record endpoints.
type ScoreHandler struct {
	scores *service.ScoreService
}

// NewScoreHandler constructs handler.
func NewScoreHandler(scores *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scores: scores}
}

// Create godoc
// @Summary Create a score record
// @Tags Scores
// @Accept json
// @Produce json
// @Param payload body service.CreateScoreRequest true "Score payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Security BearerAuth
// @Router /scores [post]
func (h *ScoreHandler) Create(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.scores.Create(c.Request.Context(), req, teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update a score record
// @Tags Scores
// @Accept json
// @Produce json
// @Param id path string true "Score ID"
// @Param payload body service.UpdateScoreRequest true "Score payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/{id} [put]
func (h *ScoreHandler) Update(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.scores.Update(c.Request.Context(), c.Param("id"), req, teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Delete godoc
// @Summary Delete a score record
// @Tags Scores
// @Produce json
// @Param id path string true "Score ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 423 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/{id} [delete]
func (h *ScoreHandler) Delete(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.scores.Delete(c.Request.Context(), c.Param("id"), teacherID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BatchCreate godoc
// @Summary Create score records in batch
// @Tags Scores
// @Accept json
// @Produce json
// @Param payload body []service.CreateScoreRequest true "Score payloads"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/batch [post]
func (h *ScoreHandler) BatchCreate(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var reqs []service.CreateScoreRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result := h.scores.BatchCreate(c.Request.Context(), reqs, teacherID)
	response.OK(c, result)
}

// BatchUpdate godoc
// @Summary Update score records in batch
// @Tags Scores
// @Accept json
// @Produce json
// @Param payload body []service.BatchUpdateItem true "Update payloads"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/batch [put]
func (h *ScoreHandler) BatchUpdate(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var items []service.BatchUpdateItem
	if err := c.ShouldBindJSON(&items); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result := h.scores.BatchUpdate(c.Request.Context(), items, teacherID)
	response.OK(c, result)
}

// Get godoc
// @Summary Get a score record by id
// @Tags Scores
// @Produce json
// @Param id path string true "Score ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/{id} [get]
func (h *ScoreHandler) Get(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, err := h.scores.GetByID(c.Request.Context(), c.Param("id"), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// ListMine godoc
// @Summary List the caller's score records
// @Tags Scores
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /scores [get]
func (h *ScoreHandler) ListMine(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	records, err := h.scores.ListByTeacher(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// ListClass godoc
// @Summary List score records for a class
// @Tags Scores
// @Produce json
// @Param className query string true "Class name"
// @Param year query int true "Academic year"
// @Param semester query string true "Semester (1, 2 or BOTH)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/class [get]
func (h *ScoreHandler) ListClass(c *gin.Context) {
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
	records, err := h.scores.ListByClass(c.Request.Context(), teacherID, className, year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

// ClassAverage godoc
// @Summary Aggregate class average for one subject
// @Tags Scores
// @Produce json
// @Param className query string true "Class name"
// @Param subject query string true "Subject"
// @Param year query int true "Academic year"
// @Param semester query string true "Semester (1, 2 or BOTH)"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /scores/class/average [get]
func (h *ScoreHandler) ClassAverage(c *gin.Context) {
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
	subject := c.Query("subject")
	if subject == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subject is required"))
		return
	}
	avg, err := h.scores.ClassAverage(c.Request.Context(), teacherID, className, subject, year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"class_name": className, "subject": subject, "academic_year": year, "semester": semester, "average": avg})
}

func atoiQuery(raw, name string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be an integer")
	}
	return value, nil
}

func semesterQuery(c *gin.Context) models.Semester {
	return models.Semester(c.Query("semester"))
}

func classQuery(c *gin.Context) (string, int, models.Semester, error) {
	className := c.Query("className")
	if className == "" {
		return "", 0, "", appErrors.Clone(appErrors.ErrValidation, "className is required")
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return "", 0, "", appErrors.Clone(appErrors.ErrValidation, "year must be an integer")
	}
	semester := models.Semester(c.Query("semester"))
	if !semester.Valid() {
		return "", 0, "", appErrors.Clone(appErrors.ErrValidation, "semester must be 1, 2 or BOTH")
	}
	return className, year, semester, nil
}
