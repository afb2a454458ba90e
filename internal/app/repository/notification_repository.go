package repository

import (
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByUserID(userID uint, unreadOnly bool) ([]model.Notification, error)
	FindByID(id uint) (*model.Notification, error)
	MarkRead(id uint) error
	GetSettings(userID uint) (*model.NotificationSettings, error)
	SaveSettings(settings *model.NotificationSettings) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		logger.Error("Failed to create notification in database", err, map[string]interface{}{
			"user_id": notification.UserID,
			"type":    notification.Type,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) FindByUserID(userID uint, unreadOnly bool) ([]model.Notification, error) {
	var notifications []model.Notification
	q := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(100)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Find(&notifications).Error; err != nil {
		logger.Error("Failed to list notifications in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) MarkRead(id uint) error {
	if err := r.db.Model(&model.Notification{}).Where("id = ?", id).Update("is_read", true).Error; err != nil {
		logger.Error("Failed to mark notification as read", err, map[string]interface{}{
			"notification_id": id,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) GetSettings(userID uint) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *notificationRepository) SaveSettings(settings *model.NotificationSettings) error {
	if err := r.db.Save(settings).Error; err != nil {
		logger.Error("Failed to save notification settings", err, map[string]interface{}{
			"user_id": settings.UserID,
		})
		return err
	}
	return nil
}
