package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/internal/app/service"
	"github.com/tastebase/tastebase-backend/internal/db"
	"github.com/tastebase/tastebase-backend/internal/middleware"
	"github.com/tastebase/tastebase-backend/internal/websocket"
	"github.com/tastebase/tastebase-backend/pkg/util"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret"

type applicationTestEnv struct {
	router    *gin.Engine
	db        *gorm.DB
	user      *model.User
	admin     *model.User
	userToken string
	adminTok  string
}

func setupApplicationControllerTest(t *testing.T) *applicationTestEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(&model.Notification{}))

	userRepo := repository.NewUserRepository(testDB)
	applicationRepo := repository.NewChefApplicationRepository(testDB)
	chefRepo := repository.NewChefRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	hub := websocket.NewHub()
	go hub.Run()

	applicationService := service.NewApplicationService(applicationRepo, chefRepo, userRepo)
	reviewService := service.NewReviewService(testDB, applicationRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub)
	exportService := service.NewExportService(applicationRepo)

	applicationController := NewChefApplicationController(
		applicationService,
		reviewService,
		notificationService,
		exportService,
	)
	approvalController := NewChefApprovalController(reviewService, notificationService)

	authMiddleware := middleware.NewAuthMiddleware(testSecret)
	adminOnly := authMiddleware.RequireRole(string(model.RoleAdmin))

	router := gin.New()
	v1 := router.Group("/api/v1")
	applications := v1.Group("/chef-applications")
	applications.Use(authMiddleware.Authenticate())
	{
		applications.POST("", applicationController.Submit)
		applications.GET("/me", applicationController.GetMine)
		applications.GET("/:id", applicationController.GetByID)
		applications.DELETE("/:id", applicationController.Delete)
		applications.GET("", adminOnly, applicationController.List)
		applications.PUT("/:id/review", adminOnly, applicationController.Review)
		applications.GET("/stats", adminOnly, applicationController.GetStats)
		applications.GET("/export", adminOnly, applicationController.Export)
	}
	approval := v1.Group("/chef-approval")
	approval.Use(authMiddleware.Authenticate(), adminOnly)
	{
		approval.GET("/pending", approvalController.ListPending)
		approval.POST("/approve/:id", approvalController.Approve)
		approval.POST("/reject/:id", approvalController.Reject)
	}

	user := &model.User{
		Username:     "applicant",
		Email:        "applicant@example.com",
		PasswordHash: "hash",
		FullName:     "Aspiring Chef",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	admin := &model.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "hash",
		FullName:     "Administrator",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	return &applicationTestEnv{
		router:    router,
		db:        testDB,
		user:      user,
		admin:     admin,
		userToken: tokenFor(t, user),
		adminTok:  tokenFor(t, admin),
	}
}

func tokenFor(t *testing.T, user *model.User) string {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		testSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens.AccessToken
}

func (env *applicationTestEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *applicationTestEnv) submit(t *testing.T) uint {
	w := env.do(t, "POST", "/api/v1/chef-applications", env.userToken, gin.H{
		"specialty_cuisine":   "Italian",
		"years_of_experience": 5,
		"certification_name":  "Culinary Diploma",
		"biography":           "Years of pasta.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Application struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
		} `json:"application"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, model.ApplicationStatusPending, resp.Application.Status)
	return resp.Application.ID
}

func TestChefApplicationController_Submit(t *testing.T) {
	env := setupApplicationControllerTest(t)

	id := env.submit(t)
	assert.NotZero(t, id)

	// Admins were notified about the new submission
	var notifications []model.Notification
	require.NoError(t, env.db.Where("user_id = ?", env.admin.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeApplicationSubmitted, notifications[0].Type)
}

func TestChefApplicationController_Submit_Duplicate(t *testing.T) {
	env := setupApplicationControllerTest(t)

	env.submit(t)

	w := env.do(t, "POST", "/api/v1/chef-applications", env.userToken, gin.H{
		"specialty_cuisine":   "Thai",
		"years_of_experience": 2,
		"biography":           "Second try while first is pending.",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "You already have a pending application.")
}

func TestChefApplicationController_Submit_AlreadyChef(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.adminTok, gin.H{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "POST", "/api/v1/chef-applications", env.userToken, gin.H{
		"specialty_cuisine":   "French",
		"years_of_experience": 6,
		"biography":           "Applying again after approval.",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "You are already a chef.")
}

func TestChefApplicationController_Submit_Unauthenticated(t *testing.T) {
	env := setupApplicationControllerTest(t)

	w := env.do(t, "POST", "/api/v1/chef-applications", "", gin.H{
		"specialty_cuisine":   "Thai",
		"years_of_experience": 2,
		"biography":           "bio",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChefApplicationController_Review_Approve(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.adminTok, gin.H{
		"status":        "approved",
		"admin_remarks": "Looks great",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)

	// Chef profile materialized and role promoted
	var chefCount int64
	require.NoError(t, env.db.Model(&model.Chef{}).Where("user_id = ?", env.user.ID).Count(&chefCount).Error)
	assert.Equal(t, int64(1), chefCount)

	var updated model.User
	require.NoError(t, env.db.First(&updated, env.user.ID).Error)
	assert.Equal(t, model.RoleChef, updated.Role)

	// Applicant got a review notification
	var notifications []model.Notification
	require.NoError(t, env.db.
		Where("user_id = ? AND type = ?", env.user.ID, model.NotificationTypeApplicationReviewed).
		Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestChefApplicationController_Review_Twice(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.adminTok, gin.H{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.adminTok, gin.H{
		"status": "rejected",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already been reviewed")
}

func TestChefApplicationController_Review_InvalidStatus(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.adminTok, gin.H{
		"status": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChefApplicationController_Review_NonAdmin(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.userToken, gin.H{
		"status": "approved",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChefApplicationController_Delete_AfterReview(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.adminTok, gin.H{
		"status": "rejected",
		"admin_remarks": "Not enough experience",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "DELETE", fmt.Sprintf("/api/v1/chef-applications/%d", id), env.userToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete a reviewed application.")
}

func TestChefApplicationController_Delete_Pending(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "DELETE", fmt.Sprintf("/api/v1/chef-applications/%d", id), env.userToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = env.do(t, "GET", fmt.Sprintf("/api/v1/chef-applications/%d", id), env.userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChefApplicationController_GetByID_OtherUser(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	other := &model.User{
		Username:     "stranger",
		Email:        "stranger@example.com",
		PasswordHash: "hash",
		FullName:     "Stranger",
		Role:         model.RoleUser,
	}
	require.NoError(t, env.db.Create(other).Error)

	w := env.do(t, "GET", fmt.Sprintf("/api/v1/chef-applications/%d", id), tokenFor(t, other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins can read any application
	w = env.do(t, "GET", fmt.Sprintf("/api/v1/chef-applications/%d", id), env.adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChefApplicationController_List_FilterValidation(t *testing.T) {
	env := setupApplicationControllerTest(t)
	env.submit(t)

	w := env.do(t, "GET", "/api/v1/chef-applications?status=pending", env.adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = env.do(t, "GET", "/api/v1/chef-applications?status=bogus", env.adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChefApplicationController_Stats(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "PUT", fmt.Sprintf("/api/v1/chef-applications/%d/review", id), env.adminTok, gin.H{
		"status": "approved",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/v1/chef-applications/stats", env.adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"approved":1`)
	assert.Contains(t, w.Body.String(), `"pending":0`)
}

func TestChefApplicationController_Export(t *testing.T) {
	env := setupApplicationControllerTest(t)
	env.submit(t)

	w := env.do(t, "GET", "/api/v1/chef-applications/export", env.adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestChefApprovalController_LegacyApprove(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	w := env.do(t, "GET", "/api/v1/chef-approval/pending", env.adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = env.do(t, "POST", fmt.Sprintf("/api/v1/chef-approval/approve/%d", id), env.adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Same transactional outcome as the review endpoint
	var chefCount int64
	require.NoError(t, env.db.Model(&model.Chef{}).Where("user_id = ?", env.user.ID).Count(&chefCount).Error)
	assert.Equal(t, int64(1), chefCount)

	var updated model.User
	require.NoError(t, env.db.First(&updated, env.user.ID).Error)
	assert.Equal(t, model.RoleChef, updated.Role)
}

func TestChefApprovalController_LegacyReject(t *testing.T) {
	env := setupApplicationControllerTest(t)
	id := env.submit(t)

	// Rejection without a reason is refused
	w := env.do(t, "POST", fmt.Sprintf("/api/v1/chef-approval/reject/%d", id), env.adminTok, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "POST", fmt.Sprintf("/api/v1/chef-approval/reject/%d", id), env.adminTok, gin.H{
		"reason": "Portfolio link is broken",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var app model.ChefApplication
	require.NoError(t, env.db.First(&app, id).Error)
	assert.Equal(t, model.ApplicationStatusRejected, app.Status)
	assert.Equal(t, "Portfolio link is broken", app.AdminRemarks)

	// A reviewed application cannot be approved afterwards
	w = env.do(t, "POST", fmt.Sprintf("/api/v1/chef-approval/approve/%d", id), env.adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
