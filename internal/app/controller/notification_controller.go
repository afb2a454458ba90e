package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/tastebase/tastebase-backend/internal/app/service"
	apperrors "github.com/tastebase/tastebase-backend/internal/errors"
	"github.com/tastebase/tastebase-backend/internal/middleware"
	ws "github.com/tastebase/tastebase-backend/internal/websocket"
)

type NotificationController struct {
	notificationService service.NotificationService
	hub                 *ws.Hub
}

func NewNotificationController(notificationService service.NotificationService, hub *ws.Hub) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		hub:                 hub,
	}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced at the HTTP layer
		return true
	},
}

type UpdateSettingsRequest struct {
	ReviewQueueNotification *bool    `json:"review_queue_notification" binding:"required"`
	WatchedCuisines         []string `json:"watched_cuisines"`
}

// List returns the caller's notifications, newest first
// GET /api/v1/notifications?unread=true
func (ctrl *NotificationController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := ctrl.notificationService.ListForUser(userID, unreadOnly)
	if err != nil {
		log.Error("Failed to list notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkRead marks one of the caller's notifications as read
// PUT /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid notification ID")
		return
	}

	if err := ctrl.notificationService.MarkRead(id, userID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			apperrors.NotFound(c, apperrors.NotificationNotFound, "Notification not found")
			return
		}
		log.Error("Failed to mark notification as read", err, map[string]interface{}{
			"notification_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notification read")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification marked as read",
	})
}

// GetSettings returns the caller's notification settings
// GET /api/v1/notifications/settings
func (ctrl *NotificationController) GetSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	settings, err := ctrl.notificationService.GetSettings(userID)
	if err != nil {
		log.Error("Failed to get notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateSettings replaces the caller's notification settings
// PUT /api/v1/notifications/settings
func (ctrl *NotificationController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid settings update request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	settings, err := ctrl.notificationService.UpdateSettings(userID, *req.ReviewQueueNotification, req.WatchedCuisines)
	if err != nil {
		log.Error("Failed to update notification settings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

// Stream upgrades the connection and attaches it to the notification hub
// GET /api/v1/notifications/stream
func (ctrl *NotificationController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket notification stream opened", map[string]interface{}{
		"user_id": userID,
	})
}
