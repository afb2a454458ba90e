package repository

import (
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"gorm.io/gorm"
)

type ChefRepository interface {
	Create(chef *model.Chef) error
	FindByID(id uint) (*model.Chef, error)
	FindByUserID(userID uint) (*model.Chef, error)
	FindAll() ([]model.Chef, error)
	ExistsByUserID(userID uint) (bool, error)
	DeleteByUserID(userID uint) error
}

type chefRepository struct {
	db *gorm.DB
}

func NewChefRepository(db *gorm.DB) ChefRepository {
	return &chefRepository{db: db}
}

func (r *chefRepository) Create(chef *model.Chef) error {
	logger.Debug("Creating chef profile in database", map[string]interface{}{
		"user_id": chef.UserID,
		"cuisine": chef.SpecialtyCuisine,
	})

	if err := r.db.Create(chef).Error; err != nil {
		logger.Error("Failed to create chef profile in database", err, map[string]interface{}{
			"user_id": chef.UserID,
		})
		return err
	}
	return nil
}

func (r *chefRepository) FindByID(id uint) (*model.Chef, error) {
	var chef model.Chef
	if err := r.db.Preload("User").First(&chef, id).Error; err != nil {
		return nil, err
	}
	return &chef, nil
}

func (r *chefRepository) FindByUserID(userID uint) (*model.Chef, error) {
	var chef model.Chef
	if err := r.db.Preload("User").Where("user_id = ?", userID).First(&chef).Error; err != nil {
		return nil, err
	}
	return &chef, nil
}

func (r *chefRepository) FindAll() ([]model.Chef, error) {
	var chefs []model.Chef
	if err := r.db.Preload("User").Order("approved_at DESC").Find(&chefs).Error; err != nil {
		logger.Error("Failed to list chef profiles in database", err)
		return nil, err
	}
	return chefs, nil
}

func (r *chefRepository) ExistsByUserID(userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Chef{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *chefRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting chef profile from database", map[string]interface{}{
		"user_id": userID,
	})

	// Hard delete: a soft-deleted row would keep holding the unique
	// user_id index and block a later re-approval.
	if err := r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.Chef{}).Error; err != nil {
		logger.Error("Failed to delete chef profile from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}
