package service

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/internal/websocket"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	NotifyApplicationSubmitted(app *model.ChefApplication)
	NotifyApplicationReviewed(app *model.ChefApplication)
	ListForUser(userID uint, unreadOnly bool) ([]model.Notification, error)
	MarkRead(id, callerUserID uint) error
	GetSettings(userID uint) (*model.NotificationSettings, error)
	UpdateSettings(userID uint, reviewQueue bool, watchedCuisines []string) (*model.NotificationSettings, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	hub              *websocket.Hub
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	hub *websocket.Hub,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		hub:              hub,
	}
}

// NotifyApplicationSubmitted fans a review-queue notification out to every
// admin whose settings match the application's cuisine. Failures are
// logged, never surfaced: notification delivery must not fail a submission.
func (s *notificationService) NotifyApplicationSubmitted(app *model.ChefApplication) {
	admins, err := s.userRepo.FindByRole(model.RoleAdmin)
	if err != nil {
		logger.Error("Failed to resolve admins for submission notification", err, map[string]interface{}{
			"application_id": app.ID,
		})
		return
	}

	applicant := ""
	if app.User != nil {
		applicant = app.User.Username
	}

	for _, admin := range admins {
		if !s.wantsReviewQueueNotification(admin.ID, app.SpecialtyCuisine) {
			continue
		}

		appID := app.ID
		notification := &model.Notification{
			UserID:               admin.ID,
			Type:                 model.NotificationTypeApplicationSubmitted,
			Title:                "New chef application",
			Content:              fmt.Sprintf("%s applied as a %s chef", applicant, app.SpecialtyCuisine),
			Link:                 fmt.Sprintf("/admin/chef-applications/%d", app.ID),
			RelatedApplicationID: &appID,
		}

		if err := s.notificationRepo.Create(notification); err != nil {
			continue
		}

		s.hub.SendToUser(admin.ID, notification)
	}
}

// NotifyApplicationReviewed tells the applicant their application was decided
func (s *notificationService) NotifyApplicationReviewed(app *model.ChefApplication) {
	appID := app.ID
	notification := &model.Notification{
		UserID:               app.UserID,
		Type:                 model.NotificationTypeApplicationReviewed,
		Title:                "Your chef application was reviewed",
		Content:              fmt.Sprintf("Your application has been %s", app.Status),
		Link:                 fmt.Sprintf("/chef-applications/%d", app.ID),
		RelatedApplicationID: &appID,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return
	}

	s.hub.SendToUser(app.UserID, notification)
}

func (s *notificationService) wantsReviewQueueNotification(adminID uint, cuisine string) bool {
	settings, err := s.notificationRepo.GetSettings(adminID)
	if err != nil {
		// no settings row yet: default is notify about everything
		return true
	}

	if !settings.ReviewQueueNotification {
		return false
	}
	if len(settings.WatchedCuisines) == 0 {
		return true
	}
	for _, watched := range settings.WatchedCuisines {
		if watched == cuisine {
			return true
		}
	}
	return false
}

func (s *notificationService) ListForUser(userID uint, unreadOnly bool) ([]model.Notification, error) {
	return s.notificationRepo.FindByUserID(userID, unreadOnly)
}

func (s *notificationService) MarkRead(id, callerUserID uint) error {
	notification, err := s.notificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID != callerUserID {
		return ErrNotificationNotFound
	}

	return s.notificationRepo.MarkRead(id)
}

func (s *notificationService) GetSettings(userID uint) (*model.NotificationSettings, error) {
	settings, err := s.notificationRepo.GetSettings(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// implicit defaults until the user saves settings
			return &model.NotificationSettings{
				UserID:                  userID,
				ReviewQueueNotification: true,
				WatchedCuisines:         pq.StringArray{},
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *notificationService) UpdateSettings(userID uint, reviewQueue bool, watchedCuisines []string) (*model.NotificationSettings, error) {
	settings, err := s.notificationRepo.GetSettings(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		settings = &model.NotificationSettings{UserID: userID}
	}

	settings.ReviewQueueNotification = reviewQueue
	if watchedCuisines == nil {
		watchedCuisines = []string{}
	}
	settings.WatchedCuisines = pq.StringArray(watchedCuisines)

	if err := s.notificationRepo.SaveSettings(settings); err != nil {
		return nil, err
	}

	logger.Info("Notification settings updated", map[string]interface{}{
		"user_id":          userID,
		"review_queue":     reviewQueue,
		"watched_cuisines": len(watchedCuisines),
	})

	return settings, nil
}
