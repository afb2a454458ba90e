package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/internal/db"
	"gorm.io/gorm"
)

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.User, *model.User) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	applicationRepo := repository.NewChefApplicationRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	reviewService := NewReviewService(testDB, applicationRepo, userRepo)

	applicant := &model.User{
		Username:     "applicant",
		Email:        "applicant@example.com",
		PasswordHash: "hash",
		FullName:     "Aspiring Chef",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(applicant).Error)

	admin := &model.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "hash",
		FullName:     "Administrator",
		Role:         model.RoleAdmin,
	}
	require.NoError(t, testDB.Create(admin).Error)

	return reviewService, testDB, applicant, admin
}

func createPendingApplication(t *testing.T, testDB *gorm.DB, userID uint) *model.ChefApplication {
	app := &model.ChefApplication{
		UserID:            userID,
		SpecialtyCuisine:  "Japanese",
		YearsOfExperience: 8,
		CertificationName: "Sushi Academy Certificate",
		Biography:         "Eight years behind the counter.",
		Status:            model.ApplicationStatusPending,
	}
	require.NoError(t, testDB.Create(app).Error)
	return app
}

func TestReviewService_Approve_Success(t *testing.T) {
	reviewService, testDB, applicant, admin := setupReviewServiceTest(t)
	app := createPendingApplication(t, testDB, applicant.ID)

	reviewed, err := reviewService.Review(app.ID, admin.ID, DecisionApproved, "Welcome aboard")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApproved, reviewed.Status)
	assert.Equal(t, "Welcome aboard", reviewed.AdminRemarks)
	require.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, admin.ID, *reviewed.ReviewedBy)

	// Exactly one chef profile, copied from the application
	var chefs []model.Chef
	require.NoError(t, testDB.Where("user_id = ?", applicant.ID).Find(&chefs).Error)
	require.Len(t, chefs, 1)
	assert.Equal(t, "Japanese", chefs[0].SpecialtyCuisine)
	assert.Equal(t, 8, chefs[0].YearsOfExperience)

	// Role promotion happened in the same transaction
	var updated model.User
	require.NoError(t, testDB.First(&updated, applicant.ID).Error)
	assert.Equal(t, model.RoleChef, updated.Role)
}

func TestReviewService_Reject_Success(t *testing.T) {
	reviewService, testDB, applicant, admin := setupReviewServiceTest(t)
	app := createPendingApplication(t, testDB, applicant.ID)

	reviewed, err := reviewService.Review(app.ID, admin.ID, DecisionRejected, "Certification could not be verified")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusRejected, reviewed.Status)
	assert.Equal(t, "Certification could not be verified", reviewed.AdminRemarks)

	// No chef profile and no role change
	var count int64
	require.NoError(t, testDB.Model(&model.Chef{}).Where("user_id = ?", applicant.ID).Count(&count).Error)
	assert.Zero(t, count)

	var updated model.User
	require.NoError(t, testDB.First(&updated, applicant.ID).Error)
	assert.Equal(t, model.RoleUser, updated.Role)
}

func TestReviewService_Review_Twice(t *testing.T) {
	reviewService, testDB, applicant, admin := setupReviewServiceTest(t)
	app := createPendingApplication(t, testDB, applicant.ID)

	_, err := reviewService.Review(app.ID, admin.ID, DecisionApproved, "")
	require.NoError(t, err)

	// Second decision of any kind is refused
	_, err = reviewService.Review(app.ID, admin.ID, DecisionRejected, "changed my mind")
	assert.ErrorIs(t, err, ErrApplicationNotPending)

	// First decision stands
	var current model.ChefApplication
	require.NoError(t, testDB.First(&current, app.ID).Error)
	assert.Equal(t, model.ApplicationStatusApproved, current.Status)
}

func TestReviewService_Review_Concurrent(t *testing.T) {
	reviewService, testDB, applicant, admin := setupReviewServiceTest(t)
	app := createPendingApplication(t, testDB, applicant.ID)

	// Single connection so both reviews run against the same in-memory DB
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = reviewService.Review(app.ID, admin.ID, DecisionApproved, "")
		}(i)
	}
	wg.Wait()

	// Exactly one review wins; the loser hits the locked re-check
	var succeeded, refused int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrApplicationNotPending):
			refused++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, refused)

	var chefCount int64
	require.NoError(t, testDB.Model(&model.Chef{}).Where("user_id = ?", applicant.ID).Count(&chefCount).Error)
	assert.Equal(t, int64(1), chefCount)
}

func TestReviewService_Review_InvalidDecision(t *testing.T) {
	reviewService, testDB, applicant, admin := setupReviewServiceTest(t)
	app := createPendingApplication(t, testDB, applicant.ID)

	_, err := reviewService.Review(app.ID, admin.ID, Decision("maybe"), "")
	assert.ErrorIs(t, err, ErrInvalidDecision)

	// Pending decisions cannot be assigned either
	_, err = reviewService.Review(app.ID, admin.ID, Decision(model.ApplicationStatusPending), "")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestReviewService_Review_NotFound(t *testing.T) {
	reviewService, _, _, admin := setupReviewServiceTest(t)

	_, err := reviewService.Review(9999, admin.ID, DecisionApproved, "")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestReviewService_Approve_ChefAlreadyExists(t *testing.T) {
	reviewService, testDB, applicant, admin := setupReviewServiceTest(t)
	app := createPendingApplication(t, testDB, applicant.ID)

	require.NoError(t, testDB.Create(&model.Chef{
		UserID:           applicant.ID,
		SpecialtyCuisine: "Italian",
	}).Error)

	// Approval succeeds without inserting a second profile
	reviewed, err := reviewService.Review(app.ID, admin.ID, DecisionApproved, "")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApproved, reviewed.Status)

	var count int64
	require.NoError(t, testDB.Model(&model.Chef{}).Where("user_id = ?", applicant.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReviewService_PendingApplications(t *testing.T) {
	reviewService, testDB, applicant, admin := setupReviewServiceTest(t)

	first := createPendingApplication(t, testDB, applicant.ID)
	require.NoError(t, testDB.Create(&model.ChefApplication{
		UserID:           admin.ID,
		SpecialtyCuisine: "Indian",
		Biography:        "bio",
		Status:           model.ApplicationStatusRejected,
	}).Error)

	pending, err := reviewService.PendingApplications()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}
