package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/academic-service/internal/auth"
	"github.com/SAP-F-2025/academic-service/internal/cache"
	"github.com/SAP-F-2025/academic-service/internal/config"
	"github.com/SAP-F-2025/academic-service/internal/handlers"
	"github.com/SAP-F-2025/academic-service/internal/middleware"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"github.com/SAP-F-2025/academic-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/academic-service/internal/services"
	"github.com/SAP-F-2025/academic-service/internal/utils"
	"github.com/SAP-F-2025/academic-service/internal/validator"
	"github.com/SAP-F-2025/academic-service/pkg"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("database migration failed", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)
	defer repo.Close()

	// Redis is optional: without it the service runs with caching and rate
	// limiting disabled.
	var rdb *goredis.Client
	var cacheService cache.CacheService = cache.NoopCache{}
	if client, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, cache and rate limiting disabled", "error", err)
	} else {
		rdb = client
		cacheService = cache.NewRedisCache(client, logger)
		defer client.Close()
	}

	slogLogger := utils.ToSlogLogger(logger)
	publisher, err := cfg.Events.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("event publisher setup failed", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:              repo,
		Logger:            slogLogger,
		Validator:         validator.New(),
		Cache:             cacheService,
		Publisher:         publisher,
		Tokens:            tokens,
		Hasher:            hasher,
		FallbackTeacherID: resolveFallbackTeacher(repo, cfg, logger),
	})

	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.RateLimit(cfg.RateLimit, rdb))

	handlerManager := handlers.NewHandlerManager(serviceManager, tokens, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("starting academic service",
			"port", cfg.Port,
			"environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

// resolveFallbackTeacher looks up the administrative account that inherits a
// deactivated teacher's courses. Resolved once here so the cascade path never
// depends on an email lookup. A missing account is tolerated at startup;
// teacher deactivation will fail with a dependency error until it exists.
func resolveFallbackTeacher(repo repositories.Repository, cfg *config.Config, logger utils.Logger) uint {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fallback, err := repo.User().GetByEmail(ctx, cfg.FallbackTeacherEmail)
	if err != nil {
		logger.Warn("fallback teacher account not found, teacher deactivation will be unavailable",
			"email", cfg.FallbackTeacherEmail,
			"error", err)
		return 0
	}
	return fallback.ID
}
