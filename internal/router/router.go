package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tastebase/tastebase-backend/config"
	"github.com/tastebase/tastebase-backend/internal/app/controller"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/middleware"
)

type Router struct {
	authController            *controller.AuthController
	chefApplicationController *controller.ChefApplicationController
	chefApprovalController    *controller.ChefApprovalController
	chefController            *controller.ChefController
	notificationController    *controller.NotificationController
	uploadController          *controller.UploadController
	authMiddleware            *middleware.AuthMiddleware
	config                    *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	chefApplicationController *controller.ChefApplicationController,
	chefApprovalController *controller.ChefApprovalController,
	chefController *controller.ChefController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:            authController,
		chefApplicationController: chefApplicationController,
		chefApprovalController:    chefApprovalController,
		chefController:            chefController,
		notificationController:    notificationController,
		uploadController:          uploadController,
		authMiddleware:            authMiddleware,
		config:                    cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "TASTEBASE API is running",
		})
	})

	adminOnly := r.authMiddleware.RequireRole(string(model.RoleAdmin))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		applications := v1.Group("/chef-applications")
		applications.Use(r.authMiddleware.Authenticate())
		{
			applications.POST("", r.chefApplicationController.Submit)
			applications.GET("/me", r.chefApplicationController.GetMine)
			applications.GET("/:id", r.chefApplicationController.GetByID)
			applications.DELETE("/:id", r.chefApplicationController.Delete)

			applications.GET("", adminOnly, r.chefApplicationController.List)
			applications.PUT("/:id/review", adminOnly, r.chefApplicationController.Review)
			applications.GET("/stats", adminOnly, r.chefApplicationController.GetStats)
			applications.GET("/export", adminOnly, r.chefApplicationController.Export)
		}

		// Legacy approval surface; same review semantics as PUT /:id/review
		approval := v1.Group("/chef-approval")
		approval.Use(r.authMiddleware.Authenticate(), adminOnly)
		{
			approval.GET("/pending", r.chefApprovalController.ListPending)
			approval.POST("/approve/:id", r.chefApprovalController.Approve)
			approval.POST("/reject/:id", r.chefApprovalController.Reject)
		}

		chefs := v1.Group("/chefs")
		{
			chefs.GET("", r.chefController.List)
			chefs.GET("/me", r.authMiddleware.Authenticate(), r.chefController.GetMine)
			chefs.GET("/:id", r.chefController.GetByID)

			chefs.POST("",
				r.authMiddleware.Authenticate(),
				adminOnly,
				r.chefController.Create,
			)
			chefs.DELETE("/user/:user_id",
				r.authMiddleware.Authenticate(),
				adminOnly,
				r.chefController.Delete,
			)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.List)
			notifications.PUT("/:id/read", r.notificationController.MarkRead)
			notifications.GET("/settings", r.notificationController.GetSettings)
			notifications.PUT("/settings", r.notificationController.UpdateSettings)
			notifications.GET("/stream", r.notificationController.Stream)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/certification", r.uploadController.GenerateCertificationUploadURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
