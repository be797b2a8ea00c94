package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/SAP-F-2025/academic-service/internal/errors"
	"github.com/SAP-F-2025/academic-service/internal/services"
	"github.com/SAP-F-2025/academic-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and response shaping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogError logs error details with request context
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetHeader("X-Request-ID"),
	}
	fields = append(fields, additionalFields...)
	h.logger.LogError(err, message, fields...)
}

// RespondWithError maps a service error onto the transport status code and
// renders the shared error envelope.
func (h *BaseHandler) RespondWithError(c *gin.Context, err error, message string) {
	status := statusFromError(err)

	resp := ErrorResponse{Message: message}
	var verrs apperrors.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Details = verrs
	}

	if status >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", status)
	} else {
		h.logger.Warn(message, "status_code", status, "error", err,
			"method", c.Request.Method, "path", c.Request.URL.Path)
	}

	c.JSON(status, resp)
}

// RespondWithSuccess renders the shared success envelope.
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// statusFromError translates the domain error taxonomy into HTTP codes.
// Bad credentials are the only 401; role and ownership denials are 403.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case services.IsNotFound(err):
		return http.StatusNotFound
	case services.IsUnauthorized(err):
		return http.StatusForbidden
	case services.IsConflict(err):
		return http.StatusConflict
	case services.IsValidation(err):
		return http.StatusBadRequest
	case services.IsDependency(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
