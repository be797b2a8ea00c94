package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/academic-service/internal/middleware"
	"github.com/SAP-F-2025/academic-service/internal/services"
	"github.com/SAP-F-2025/academic-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Create registers a new course owned by the teacher named in the request.
// POST /academic/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		h.RespondWithError(c, services.ErrUnauthorized, "authentication required")
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, "invalid request body")
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.RespondWithError(c, err, "failed to create course")
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "course created", course)
}

// ListMine returns courses taught by a teacher caller or enrolled by a
// student caller.
// GET /academic/v1/courses
func (h *CourseHandler) ListMine(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		h.RespondWithError(c, services.ErrUnauthorized, "authentication required")
		return
	}

	result, err := h.service.ListMine(c.Request.Context(), callerID, parsePage(c))
	if err != nil {
		h.RespondWithError(c, err, "failed to list courses")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "courses retrieved", result)
}

// ListAll returns a page of every active course; no authentication needed.
// GET /academic/v1/courses/all
func (h *CourseHandler) ListAll(c *gin.Context) {
	result, err := h.service.ListAll(c.Request.Context(), parsePage(c))
	if err != nil {
		h.RespondWithError(c, err, "failed to list courses")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "courses retrieved", result)
}

// Get returns a single course with resolved teacher and students.
// GET /academic/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, err.Error())
		return
	}

	course, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondWithError(c, err, "failed to get course")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "course retrieved", course)
}

// Update applies a partial edit, including optional teacher reassignment.
// PUT /academic/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, err.Error())
		return
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		h.RespondWithError(c, services.ErrUnauthorized, "authentication required")
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, "invalid request body")
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.RespondWithError(c, err, "failed to update course")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "course updated successfully", course)
}

// Deactivate soft-deletes a course the caller teaches.
// DELETE /academic/v1/courses/:id
func (h *CourseHandler) Deactivate(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, err.Error())
		return
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		h.RespondWithError(c, services.ErrUnauthorized, "authentication required")
		return
	}

	course, err := h.service.Deactivate(c.Request.Context(), id, callerID)
	if err != nil {
		h.RespondWithError(c, err, "failed to deactivate course")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "course deactivated successfully", course)
}

// Assign enrolls the calling student into the course.
// POST /academic/v1/courses/:id/assign
func (h *CourseHandler) Assign(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, err.Error())
		return
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		h.RespondWithError(c, services.ErrUnauthorized, "authentication required")
		return
	}

	result, err := h.service.Assign(c.Request.Context(), id, callerID)
	if err != nil {
		h.RespondWithError(c, err, "failed to assign to course")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "successfully assigned to course", result)
}

// ExportRoster streams the course roster as an xlsx attachment.
// GET /academic/v1/courses/:id/roster/export
func (h *CourseHandler) ExportRoster(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, err.Error())
		return
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		h.RespondWithError(c, services.ErrUnauthorized, "authentication required")
		return
	}

	data, err := h.service.ExportRoster(c.Request.Context(), id, callerID)
	if err != nil {
		h.RespondWithError(c, err, "failed to export roster")
		return
	}

	filename := fmt.Sprintf("course-%d-roster.xlsx", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
