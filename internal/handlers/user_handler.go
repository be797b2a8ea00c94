package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/academic-service/internal/middleware"
	"github.com/SAP-F-2025/academic-service/internal/services"
	"github.com/SAP-F-2025/academic-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	BaseHandler
	service services.UserService
}

func NewUserHandler(service services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List returns a page of active users with resolved course summaries.
// GET /academic/v1/users
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), parsePage(c))
	if err != nil {
		h.RespondWithError(c, err, "failed to list users")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "users retrieved", result)
}

// Get returns a single user by id, active or not.
// GET /academic/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, err.Error())
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondWithError(c, err, "failed to get user")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "user retrieved", user)
}

// Update applies a partial self-service profile edit.
// PUT /academic/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
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

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, "invalid request body")
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.RespondWithError(c, err, "failed to update user")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "user updated", user)
}

// Deactivate soft-deletes the caller's own account.
// DELETE /academic/v1/users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
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

	user, err := h.service.Deactivate(c.Request.Context(), id, callerID)
	if err != nil {
		h.RespondWithError(c, err, "failed to deactivate user")
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "user deactivated successfully", user)
}
