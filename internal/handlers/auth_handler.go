package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/academic-service/internal/services"
	"github.com/SAP-F-2025/academic-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	BaseHandler
	service services.AuthService
}

func NewAuthHandler(service services.AuthService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Register creates a new user account.
// POST /academic/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, "invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithError(c, err, "user registration failed")
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "user registered successfully", user)
}

// Login exchanges credentials for a bearer token.
// POST /academic/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, services.ErrValidationFailed, "invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithError(c, err, "login failed")
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "login successful", result)
}
