package repository

import (
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"gorm.io/gorm"
)

type ChefApplicationRepository interface {
	Create(app *model.ChefApplication) error
	FindByID(id uint) (*model.ChefApplication, error)
	FindByUserID(userID uint) ([]model.ChefApplication, error)
	FindAll(status string) ([]model.ChefApplication, error)
	HasActiveApplication(userID uint) (bool, error)
	Update(app *model.ChefApplication) error
	Delete(id uint) error
	CountByStatus() (map[string]int64, error)
}

type chefApplicationRepository struct {
	db *gorm.DB
}

func NewChefApplicationRepository(db *gorm.DB) ChefApplicationRepository {
	return &chefApplicationRepository{db: db}
}

func (r *chefApplicationRepository) Create(app *model.ChefApplication) error {
	logger.Debug("Creating chef application in database", map[string]interface{}{
		"user_id": app.UserID,
		"cuisine": app.SpecialtyCuisine,
	})

	if err := r.db.Create(app).Error; err != nil {
		logger.Error("Failed to create chef application in database", err, map[string]interface{}{
			"user_id": app.UserID,
		})
		return err
	}
	return nil
}

func (r *chefApplicationRepository) FindByID(id uint) (*model.ChefApplication, error) {
	var app model.ChefApplication
	if err := r.db.Preload("User").First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *chefApplicationRepository) FindByUserID(userID uint) ([]model.ChefApplication, error) {
	var apps []model.ChefApplication
	err := r.db.
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		logger.Error("Failed to find applications by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return apps, nil
}

// FindAll returns applications newest first, filtered by status when given.
// The filter is an exact match against the canonical lowercase status.
func (r *chefApplicationRepository) FindAll(status string) ([]model.ChefApplication, error) {
	var apps []model.ChefApplication
	q := r.db.Preload("User").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&apps).Error; err != nil {
		logger.Error("Failed to list chef applications in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return apps, nil
}

// HasActiveApplication reports whether the user has a pending or approved
// application. Rejected applications do not block a new submission.
func (r *chefApplicationRepository) HasActiveApplication(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.ChefApplication{}).
		Where("user_id = ? AND status IN ?", userID, []string{
			model.ApplicationStatusPending,
			model.ApplicationStatusApproved,
		}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *chefApplicationRepository) Update(app *model.ChefApplication) error {
	logger.Debug("Updating chef application in database", map[string]interface{}{
		"application_id": app.ID,
		"status":         app.Status,
	})

	if err := r.db.Save(app).Error; err != nil {
		logger.Error("Failed to update chef application in database", err, map[string]interface{}{
			"application_id": app.ID,
		})
		return err
	}
	return nil
}

func (r *chefApplicationRepository) Delete(id uint) error {
	logger.Debug("Deleting chef application from database", map[string]interface{}{
		"application_id": id,
	})

	if err := r.db.Delete(&model.ChefApplication{}, id).Error; err != nil {
		logger.Error("Failed to delete chef application from database", err, map[string]interface{}{
			"application_id": id,
		})
		return err
	}
	return nil
}

func (r *chefApplicationRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}

	var rows []row
	err := r.db.Model(&model.ChefApplication{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count chef applications by status", err)
		return nil, err
	}

	counts := map[string]int64{
		model.ApplicationStatusPending:  0,
		model.ApplicationStatusApproved: 0,
		model.ApplicationStatusRejected: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
