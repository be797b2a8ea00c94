package handlers

import (
	"github.com/SAP-F-2025/academic-service/internal/auth"
	"github.com/SAP-F-2025/academic-service/internal/middleware"
	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/services"
	"github.com/SAP-F-2025/academic-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	authHandler   *AuthHandler
	userHandler   *UserHandler
	courseHandler *CourseHandler
	tokens        *auth.TokenManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:   NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:   NewUserHandler(serviceManager.User(), logger),
		courseHandler: NewCourseHandler(serviceManager.Course(), logger),
		tokens:        tokens,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "academic-service",
		})
	})

	authn := middleware.Authenticate(hm.tokens)
	teacherOnly := middleware.RequireRole(models.RoleTeacher)

	v1 := router.Group("/academic/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
		}

		users := v1.Group("/users")
		{
			users.GET("", hm.userHandler.List)
			users.GET("/:id", hm.userHandler.Get)
			users.PUT("/:id", authn, hm.userHandler.Update)
			users.DELETE("/:id", authn, hm.userHandler.Deactivate)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("/all", hm.courseHandler.ListAll)
			courses.GET("/:id", hm.courseHandler.Get)

			courses.POST("", authn, teacherOnly, hm.courseHandler.Create)
			courses.GET("", authn, hm.courseHandler.ListMine)
			courses.PUT("/:id", authn, teacherOnly, hm.courseHandler.Update)
			courses.DELETE("/:id", authn, teacherOnly, hm.courseHandler.Deactivate)
			courses.POST("/:id/assign", authn, hm.courseHandler.Assign)
			courses.GET("/:id/roster/export", authn, teacherOnly, hm.courseHandler.ExportRoster)
		}
	}
}
