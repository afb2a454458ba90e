package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tastebase/tastebase-backend/config"
	"github.com/tastebase/tastebase-backend/internal/app/controller"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/internal/app/service"
	"github.com/tastebase/tastebase-backend/internal/db"
	"github.com/tastebase/tastebase-backend/internal/middleware"
	"github.com/tastebase/tastebase-backend/internal/router"
	"github.com/tastebase/tastebase-backend/internal/scheduler"
	"github.com/tastebase/tastebase-backend/internal/storage"
	"github.com/tastebase/tastebase-backend/internal/websocket"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"github.com/tastebase/tastebase-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting TASTEBASE Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis for the token blacklist. The server still runs
	// without it; logout then degrades to client-side token disposal.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, token revocation disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer redis.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	applicationRepo := repository.NewChefApplicationRepository(db.GetDB())
	chefRepo := repository.NewChefRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Notification hub
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	applicationService := service.NewApplicationService(applicationRepo, chefRepo, userRepo)
	reviewService := service.NewReviewService(db.GetDB(), applicationRepo, userRepo)
	chefService := service.NewChefService(chefRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub)
	exportService := service.NewExportService(applicationRepo)

	// S3 storage for certification image uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	chefApplicationController := controller.NewChefApplicationController(
		applicationService,
		reviewService,
		notificationService,
		exportService,
	)
	chefApprovalController := controller.NewChefApprovalController(reviewService, notificationService)
	chefController := controller.NewChefController(chefService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the stats snapshot scheduler
	statsScheduler := scheduler.NewApplicationStatsScheduler(
		applicationService,
		cfg.Snapshot.Schedule,
		cfg.Snapshot.Dir,
	)
	if err := statsScheduler.Start(); err != nil {
		logger.Error("Failed to start stats scheduler", err)
	}
	defer statsScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		chefApplicationController,
		chefApprovalController,
		chefController,
		notificationController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
