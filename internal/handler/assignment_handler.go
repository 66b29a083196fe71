package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vhtran/scorekeeper-api/internal/models"
	"github.com/vhtran/scorekeeper-api/internal/service"
	appErrors "github.com/vhtran/scorekeeper-api/pkg/errors"
	"github.com/vhtran/scorekeeper-api/pkg/response"
)

// AssignmentHandler exposes teaching assignment endpoints.
type AssignmentHandler struct {
	assignments *service.AssignmentService
	authz       *service.AuthorizationService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(assignments *service.AssignmentService, authz *service.AuthorizationService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, authz: authz}
}

// Create godoc
// @Summary Grant a teaching assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req service.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// List godoc
// @Summary List active teaching assignments
// @Tags Assignments
// @Produce json
// @Param teacherId query int false "Filter by teacher"
// @Param className query string false "Filter by class"
// @Param subject query string false "Filter by subject"
// @Param year query int false "Filter by academic year"
// @Param semester query string false "Filter by semester"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		ClassName: c.Query("className"),
		Subject:   c.Query("subject"),
		Semester:  semesterQuery(c),
	}
	if raw := c.Query("teacherId"); raw != "" {
		id, err := atoiQuery(raw, "teacherId")
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.TeacherID = int64(id)
	}
	if raw := c.Query("year"); raw != "" {
		year, err := atoiQuery(raw, "year")
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.AcademicYear = year
	}
	assignments, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignments)
}

// Deactivate godoc
// @Summary Revoke a teaching assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/assignments/{id} [delete]
func (h *AssignmentHandler) Deactivate(c *gin.Context) {
	if err := h.assignments.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MyClasses godoc
// @Summary List classes the caller may enter scores for
// @Tags Assignments
// @Produce json
// @Param year query int true "Academic year"
// @Param semester query string true "Semester (1, 2 or BOTH)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /assignments/classes [get]
func (h *AssignmentHandler) MyClasses(c *gin.Context) {
	teacherID, ok := teacherFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	year, err := atoiQuery(c.Query("year"), "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	semester := semesterQuery(c)
	if !semester.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be 1, 2 or BOTH"))
		return
	}
	classes, err := h.authz.AccessibleClasses(c.Request.Context(), teacherID, year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}
