package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vhtran/scorekeeper-api/internal/service"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
	"github.com/vhtran/scorekeeper-api/pkg/response"
)

// ScheduleHandler exposes score entry window endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// List godoc
// @Summary List score entry windows
// @Tags Schedules
// @Produce json
// @Param year query int false "Academic year"
// @Param semester query string false "Semester"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := atoiQuery(raw, "year")
		if err != nil {
			response.Error(c, err)
			return
		}
		year = parsed
	}
	windows, err := h.schedules.List(c.Request.Context(), year, semesterQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, windows)
}

// Status godoc
// @Summary Check whether score entry is open for a class
// @Tags Schedules
// @Produce json
// @Param className query string true "Class name"
// @Param year query int true "Academic year"
// @Param semester query string true "Semester (1, 2 or BOTH)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/status [get]
func (h *ScheduleHandler) Status(c *gin.Context) {
	className, year, semester, err := classQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	open, err := h.schedules.IsEntryAllowed(c.Request.Context(), className, year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"class_name": className, "academic_year": year, "semester": semester, "open": open})
}

// Active godoc
// @Summary Get the governing window for a class
// @Tags Schedules
// @Produce json
// @Param className query string true "Class name"
// @Param year query int true "Academic year"
// @Param semester query string true "Semester (1 or 2)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/active [get]
func (h *ScheduleHandler) Active(c *gin.Context) {
	className, year, semester, err := classQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	window, err := h.schedules.FindActiveWindow(c.Request.Context(), className, year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, window)
}

// Create godoc
// @Summary Create a score entry window
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body service.CreateWindowRequest true "Window payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		req.CreatedBy = claims.UserID
	}
	window, err := h.schedules.CreateWindow(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, window)
}

// Update godoc
// @Summary Update a score entry window
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Window ID"
// @Param payload body service.UpdateWindowRequest true "Window payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.UpdateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	window, err := h.schedules.UpdateWindow(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, window)
}

// Lock godoc
// @Summary Lock a score entry window
// @Tags Schedules
// @Produce json
// @Param id path string true "Window ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/schedules/{id}/lock [post]
func (h *ScheduleHandler) Lock(c *gin.Context) {
	window, err := h.schedules.LockWindow(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, window)
}

// Delete godoc
// @Summary Delete a score entry window
// @Tags Schedules
// @Produce json
// @Param id path string true "Window ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.DeleteWindow(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
