package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tastebase/tastebase-backend/internal/app/service"
	apperrors "github.com/tastebase/tastebase-backend/internal/errors"
	"github.com/tastebase/tastebase-backend/internal/middleware"
)

// ChefApprovalController is the legacy admin approval surface. It delegates
// every decision to the same ReviewService as the review endpoint, so the
// two surfaces cannot drift apart in behavior.
type ChefApprovalController struct {
	reviewService       service.ReviewService
	notificationService service.NotificationService
}

func NewChefApprovalController(
	reviewService service.ReviewService,
	notificationService service.NotificationService,
) *ChefApprovalController {
	return &ChefApprovalController{
		reviewService:       reviewService,
		notificationService: notificationService,
	}
}

type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListPending returns the review queue
// GET /api/v1/chef-approval/pending
func (ctrl *ChefApprovalController) ListPending(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	apps, err := ctrl.reviewService.PendingApplications()
	if err != nil {
		log.Error("Failed to list pending applications", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applicationListResponse(apps),
		"count":        len(apps),
	})
}

// Approve approves a pending application
// POST /api/v1/chef-approval/approve/:id
func (ctrl *ChefApprovalController) Approve(c *gin.Context) {
	ctrl.review(c, service.DecisionApproved, "")
}

// Reject rejects a pending application with a reason
// POST /api/v1/chef-approval/reject/:id
func (ctrl *ChefApprovalController) Reject(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid rejection request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A rejection reason is required")
		return
	}

	ctrl.review(c, service.DecisionRejected, req.Reason)
}

func (ctrl *ChefApprovalController) review(c *gin.Context, decision service.Decision, remarks string) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid application ID")
		return
	}

	reviewerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	app, err := ctrl.reviewService.Review(id, reviewerID, decision, remarks)
	if err != nil {
		respondLegacyReviewError(c, id, err)
		return
	}

	ctrl.notificationService.NotifyApplicationReviewed(app)

	log.Info("Application reviewed via approval endpoint", map[string]interface{}{
		"application_id": id,
		"reviewer_id":    reviewerID,
		"decision":       decision,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application reviewed successfully",
		"application": applicationResponse(app),
	})
}

func respondLegacyReviewError(c *gin.Context, id uint, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application not found")
	case errors.Is(err, service.ErrApplicationNotPending):
		apperrors.BadRequest(c, apperrors.ApplicationNotPending, "This application has already been reviewed.")
	case errors.Is(err, service.ErrInvalidDecision):
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Status must be approved or rejected")
	default:
		log.Error("Failed to review application", err, map[string]interface{}{
			"application_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review application")
	}
}
