package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/service"
	apperrors "github.com/tastebase/tastebase-backend/internal/errors"
	"github.com/tastebase/tastebase-backend/internal/middleware"
)

type ChefController struct {
	chefService service.ChefService
}

func NewChefController(chefService service.ChefService) *ChefController {
	return &ChefController{
		chefService: chefService,
	}
}

type CreateChefRequest struct {
	UserID                uint   `json:"user_id" binding:"required"`
	SpecialtyCuisine      string `json:"specialty_cuisine" binding:"required"`
	YearsOfExperience     int    `json:"years_of_experience" binding:"min=0"`
	CertificationName     string `json:"certification_name"`
	CertificationImageURL string `json:"certification_image_url"`
	PortfolioLink         string `json:"portfolio_link"`
	Biography             string `json:"biography"`
}

func chefResponse(chef *model.Chef) gin.H {
	resp := gin.H{
		"id":                      chef.ID,
		"user_id":                 chef.UserID,
		"specialty_cuisine":       chef.SpecialtyCuisine,
		"years_of_experience":     chef.YearsOfExperience,
		"certification_name":      chef.CertificationName,
		"certification_image_url": chef.CertificationImageURL,
		"portfolio_link":          chef.PortfolioLink,
		"biography":               chef.Biography,
		"rating":                  chef.Rating,
		"total_reviews":           chef.TotalReviews,
		"approved_at":             chef.ApprovedAt,
	}
	if chef.User != nil {
		resp["user"] = gin.H{
			"id":         chef.User.ID,
			"username":   chef.User.Username,
			"full_name":  chef.User.FullName,
			"avatar_url": chef.User.AvatarURL,
		}
	}
	return resp
}

// List returns all chef profiles, newest first
// GET /api/v1/chefs
func (ctrl *ChefController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	chefs, err := ctrl.chefService.ListChefs()
	if err != nil {
		log.Error("Failed to list chefs", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list chefs")
		return
	}

	out := make([]gin.H, 0, len(chefs))
	for i := range chefs {
		out = append(out, chefResponse(&chefs[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"chefs": out,
		"count": len(chefs),
	})
}

// GetByID returns a single chef profile
// GET /api/v1/chefs/:id
func (ctrl *ChefController) GetByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid chef ID")
		return
	}

	chef, err := ctrl.chefService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrChefNotFound) {
			apperrors.NotFound(c, apperrors.ChefNotFound, "Chef not found")
			return
		}
		log.Error("Failed to fetch chef", err, map[string]interface{}{
			"chef_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get chef")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chef": chefResponse(chef),
	})
}

// GetMine returns the caller's own chef profile
// GET /api/v1/chefs/me
func (ctrl *ChefController) GetMine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	chef, err := ctrl.chefService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrChefNotFound) {
			apperrors.NotFound(c, apperrors.ChefNotFound, "You do not have a chef profile")
			return
		}
		log.Error("Failed to fetch own chef profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get chef")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chef": chefResponse(chef),
	})
}

// Create materializes a chef profile without an application. Admin only.
// POST /api/v1/chefs
func (ctrl *ChefController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateChefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid chef creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid input data")
		return
	}

	chef, err := ctrl.chefService.CreateChef(service.ChefInput{
		UserID:                req.UserID,
		SpecialtyCuisine:      req.SpecialtyCuisine,
		YearsOfExperience:     req.YearsOfExperience,
		CertificationName:     req.CertificationName,
		CertificationImageURL: req.CertificationImageURL,
		PortfolioLink:         req.PortfolioLink,
		Biography:             req.Biography,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrChefAlreadyExists):
			apperrors.Conflict(c, apperrors.ChefAlreadyExists, "This user already has a chef profile")
		default:
			log.Error("Failed to create chef profile", err, map[string]interface{}{
				"user_id": req.UserID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create chef")
		}
		return
	}

	log.Info("Chef profile created", map[string]interface{}{
		"chef_id": chef.ID,
		"user_id": req.UserID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Chef profile created successfully",
		"chef":    chefResponse(chef),
	})
}

// Delete removes a chef profile and demotes the user. Admin only.
// DELETE /api/v1/chefs/user/:user_id
func (ctrl *ChefController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user ID")
		return
	}

	if err := ctrl.chefService.DeleteChef(userID); err != nil {
		if errors.Is(err, service.ErrChefNotFound) {
			apperrors.NotFound(c, apperrors.ChefNotFound, "Chef not found")
			return
		}
		log.Error("Failed to delete chef profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete chef")
		return
	}

	log.Info("Chef profile deleted", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Chef profile deleted successfully",
	})
}
