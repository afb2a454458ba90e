package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/internal/db"
	"gorm.io/gorm"
)

func setupChefServiceTest(t *testing.T) (ChefService, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	chefRepo := repository.NewChefRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	chefService := NewChefService(chefRepo, userRepo)

	user := &model.User{
		Username:     "directchef",
		Email:        "chef@example.com",
		PasswordHash: "hash",
		FullName:     "Direct Chef",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	return chefService, testDB, user
}

func TestChefService_CreateChef_Success(t *testing.T) {
	chefService, testDB, user := setupChefServiceTest(t)

	chef, err := chefService.CreateChef(ChefInput{
		UserID:            user.ID,
		SpecialtyCuisine:  "Spanish",
		YearsOfExperience: 12,
		Biography:         "Tapas specialist.",
	})
	require.NoError(t, err)
	assert.NotZero(t, chef.ID)
	assert.Equal(t, user.ID, chef.UserID)
	assert.False(t, chef.ApprovedAt.IsZero())

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, model.RoleChef, updated.Role)
}

func TestChefService_CreateChef_AlreadyExists(t *testing.T) {
	chefService, testDB, user := setupChefServiceTest(t)

	require.NoError(t, testDB.Create(&model.Chef{
		UserID:           user.ID,
		SpecialtyCuisine: "Greek",
	}).Error)

	chef, err := chefService.CreateChef(ChefInput{
		UserID:           user.ID,
		SpecialtyCuisine: "Spanish",
	})
	assert.ErrorIs(t, err, ErrChefAlreadyExists)
	assert.Nil(t, chef)
}

func TestChefService_CreateChef_UserNotFound(t *testing.T) {
	chefService, _, _ := setupChefServiceTest(t)

	chef, err := chefService.CreateChef(ChefInput{
		UserID:           9999,
		SpecialtyCuisine: "Spanish",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, chef)
}

func TestChefService_DeleteChef_DemotesUser(t *testing.T) {
	chefService, testDB, user := setupChefServiceTest(t)

	_, err := chefService.CreateChef(ChefInput{
		UserID:           user.ID,
		SpecialtyCuisine: "Spanish",
	})
	require.NoError(t, err)

	require.NoError(t, chefService.DeleteChef(user.ID))

	_, err = chefService.GetByUserID(user.ID)
	assert.ErrorIs(t, err, ErrChefNotFound)

	var updated model.User
	require.NoError(t, testDB.First(&updated, user.ID).Error)
	assert.Equal(t, model.RoleUser, updated.Role)
}

func TestChefService_DeleteChef_NotFound(t *testing.T) {
	chefService, _, user := setupChefServiceTest(t)

	err := chefService.DeleteChef(user.ID)
	assert.ErrorIs(t, err, ErrChefNotFound)
}

func TestChefService_ListChefs(t *testing.T) {
	chefService, testDB, user := setupChefServiceTest(t)

	other := &model.User{
		Username:     "second",
		Email:        "second@example.com",
		PasswordHash: "hash",
		FullName:     "Second Chef",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)

	for _, id := range []uint{user.ID, other.ID} {
		_, err := chefService.CreateChef(ChefInput{
			UserID:           id,
			SpecialtyCuisine: "Korean",
		})
		require.NoError(t, err)
	}

	chefs, err := chefService.ListChefs()
	require.NoError(t, err)
	assert.Len(t, chefs, 2)
}
