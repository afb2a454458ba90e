package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/service"
	apperrors "github.com/tastebase/tastebase-backend/internal/errors"
	"github.com/tastebase/tastebase-backend/internal/middleware"
)

type ChefApplicationController struct {
	applicationService  service.ApplicationService
	reviewService       service.ReviewService
	notificationService service.NotificationService
	exportService       service.ExportService
}

func NewChefApplicationController(
	applicationService service.ApplicationService,
	reviewService service.ReviewService,
	notificationService service.NotificationService,
	exportService service.ExportService,
) *ChefApplicationController {
	return &ChefApplicationController{
		applicationService:  applicationService,
		reviewService:       reviewService,
		notificationService: notificationService,
		exportService:       exportService,
	}
}

type SubmitApplicationRequest struct {
	SpecialtyCuisine      string `json:"specialty_cuisine" binding:"required"`
	YearsOfExperience     int    `json:"years_of_experience" binding:"required,min=0"`
	CertificationName     string `json:"certification_name"`
	CertificationImageURL string `json:"certification_image_url"`
	PortfolioLink         string `json:"portfolio_link"`
	Biography             string `json:"biography" binding:"required"`
}

type ReviewApplicationRequest struct {
	Status       string `json:"status" binding:"required"`
	AdminRemarks string `json:"admin_remarks"`
}

func applicationResponse(app *model.ChefApplication) gin.H {
	resp := gin.H{
		"id":                      app.ID,
		"user_id":                 app.UserID,
		"specialty_cuisine":       app.SpecialtyCuisine,
		"years_of_experience":     app.YearsOfExperience,
		"certification_name":      app.CertificationName,
		"certification_image_url": app.CertificationImageURL,
		"portfolio_link":          app.PortfolioLink,
		"biography":               app.Biography,
		"status":                  app.Status,
		"admin_remarks":           app.AdminRemarks,
		"reviewed_at":             app.ReviewedAt,
		"reviewed_by":             app.ReviewedBy,
		"created_at":              app.CreatedAt,
	}
	if app.User != nil {
		resp["applicant"] = gin.H{
			"id":        app.User.ID,
			"username":  app.User.Username,
			"full_name": app.User.FullName,
		}
	}
	return resp
}

func applicationListResponse(apps []model.ChefApplication) []gin.H {
	out := make([]gin.H, 0, len(apps))
	for i := range apps {
		out = append(out, applicationResponse(&apps[i]))
	}
	return out
}

// Submit handles chef application submission
// POST /api/v1/chef-applications
func (ctrl *ChefApplicationController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid application submission request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	app, err := ctrl.applicationService.Submit(userID, service.ApplicationInput{
		SpecialtyCuisine:      req.SpecialtyCuisine,
		YearsOfExperience:     req.YearsOfExperience,
		CertificationName:     req.CertificationName,
		CertificationImageURL: req.CertificationImageURL,
		PortfolioLink:         req.PortfolioLink,
		Biography:             req.Biography,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateApplication):
			log.Warn("Application submission refused: duplicate", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.ApplicationDuplicate, "You already have a pending application.")
		case errors.Is(err, service.ErrAlreadyChef):
			log.Warn("Application submission refused: already a chef", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.BadRequest(c, apperrors.ChefAlreadyExists, "You are already a chef.")
		case errors.Is(err, service.ErrUserBanned):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthAccountBanned, "This account has been banned")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		default:
			log.Error("Failed to submit application", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit application")
		}
		return
	}

	ctrl.notificationService.NotifyApplicationSubmitted(app)

	log.Info("Chef application submitted", map[string]interface{}{
		"application_id": app.ID,
		"user_id":        userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": applicationResponse(app),
	})
}

// GetMine lists the caller's own applications, newest first
// GET /api/v1/chef-applications/me
func (ctrl *ChefApplicationController) GetMine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	apps, err := ctrl.applicationService.ListByUser(userID)
	if err != nil {
		log.Error("Failed to list own applications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applicationListResponse(apps),
	})
}

// GetByID fetches a single application. Owners see their own, admins see all.
// GET /api/v1/chef-applications/:id
func (ctrl *ChefApplicationController) GetByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid application ID")
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	app, err := ctrl.applicationService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotFound) {
			apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application not found")
			return
		}
		log.Error("Failed to fetch application", err, map[string]interface{}{
			"application_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get application")
		return
	}

	if app.UserID != userID && role != model.RoleAdmin {
		log.Warn("Application access refused", map[string]interface{}{
			"application_id": id,
			"caller_user_id": userID,
		})
		apperrors.Forbidden(c, "You do not have permission to view this application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": applicationResponse(app),
	})
}

// List returns all applications, optionally filtered by status. Admin only.
// GET /api/v1/chef-applications?status=pending
func (ctrl *ChefApplicationController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")
	if status != "" && !model.ValidApplicationStatus(status) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Status must be pending, approved or rejected")
		return
	}

	apps, err := ctrl.applicationService.List(status)
	if err != nil {
		log.Error("Failed to list applications", err, map[string]interface{}{
			"status": status,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list applications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applicationListResponse(apps),
		"count":        len(apps),
	})
}

// Review applies an admin decision to a pending application
// PUT /api/v1/chef-applications/:id/review
func (ctrl *ChefApplicationController) Review(c *gin.Context) {
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

	var req ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"application_id": id,
			"error":          err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	app, err := ctrl.reviewService.Review(id, reviewerID, service.Decision(req.Status), req.AdminRemarks)
	if err != nil {
		ctrl.respondReviewError(c, id, err)
		return
	}

	ctrl.notificationService.NotifyApplicationReviewed(app)

	log.Info("Application reviewed", map[string]interface{}{
		"application_id": id,
		"reviewer_id":    reviewerID,
		"status":         app.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application reviewed successfully",
		"application": applicationResponse(app),
	})
}

// Delete removes the caller's own pending application
// DELETE /api/v1/chef-applications/:id
func (ctrl *ChefApplicationController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid application ID")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	if err := ctrl.applicationService.Delete(id, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application not found")
		case errors.Is(err, service.ErrNotApplicationOwner):
			apperrors.Forbidden(c, "You can only delete your own application")
		case errors.Is(err, service.ErrApplicationNotPending):
			apperrors.BadRequest(c, apperrors.ApplicationNotPending, "Cannot delete a reviewed application.")
		default:
			log.Error("Failed to delete application", err, map[string]interface{}{
				"application_id": id,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete application")
		}
		return
	}

	log.Info("Application deleted", map[string]interface{}{
		"application_id": id,
		"user_id":        userID,
	})

	c.Status(http.StatusNoContent)
}

// GetStats returns per-status application counts. Admin only.
// GET /api/v1/chef-applications/stats
func (ctrl *ChefApplicationController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	counts, err := ctrl.applicationService.GetStatusCounts()
	if err != nil {
		log.Error("Failed to get application stats", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get application stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": counts,
	})
}

// Export streams an XLSX workbook of applications. Admin only.
// GET /api/v1/chef-applications/export?status=approved
func (ctrl *ChefApplicationController) Export(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := c.Query("status")
	if status != "" && !model.ValidApplicationStatus(status) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidStatus, "Status must be pending, approved or rejected")
		return
	}

	data, filename, err := ctrl.exportService.ExportApplications(status)
	if err != nil {
		log.Error("Failed to export applications", err, map[string]interface{}{
			"status": status,
		})
		apperrors.InternalError(c, "Failed to export applications")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (ctrl *ChefApplicationController) respondReviewError(c *gin.Context, id uint, err error) {
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

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
