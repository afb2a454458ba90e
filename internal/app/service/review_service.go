package service

import (
	"errors"
	"time"

	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	apperrors "github.com/tastebase/tastebase-backend/internal/errors"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidDecision = errors.New("decision must be approved or rejected")

// Decision is the outcome an admin assigns to a pending application
type Decision string

const (
	DecisionApproved Decision = model.ApplicationStatusApproved
	DecisionRejected Decision = model.ApplicationStatusRejected
)

// ReviewService is the single implementation of the approval workflow.
// Both HTTP surfaces (the review endpoint and the legacy approval
// endpoints) are adapters over Review.
type ReviewService interface {
	Review(appID, reviewerID uint, decision Decision, remarks string) (*model.ChefApplication, error)
	PendingApplications() ([]model.ChefApplication, error)
}

type reviewService struct {
	db              *gorm.DB
	applicationRepo repository.ChefApplicationRepository
	userRepo        repository.UserRepository
}

func NewReviewService(
	db *gorm.DB,
	applicationRepo repository.ChefApplicationRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		db:              db,
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
	}
}

// Review applies a decision to a pending application. The status update,
// Chef profile insert, and role promotion happen in one transaction:
// either the application is fully approved or nothing changes.
//
// An application can be reviewed exactly once. A chef profile that already
// exists for the applicant (or appears concurrently; chefs.user_id is
// unique) does not fail the approval; the insert is skipped.
func (s *reviewService) Review(appID, reviewerID uint, decision Decision, remarks string) (*model.ChefApplication, error) {
	logger.Info("Reviewing chef application", map[string]interface{}{
		"application_id": appID,
		"reviewer_id":    reviewerID,
		"decision":       decision,
	})

	if decision != DecisionApproved && decision != DecisionRejected {
		return nil, ErrInvalidDecision
	}

	app, err := s.applicationRepo.FindByID(appID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		logger.Error("Failed to fetch application for review", err, map[string]interface{}{
			"application_id": appID,
		})
		return nil, err
	}

	if !app.IsPending() {
		logger.Warn("Review refused: application already reviewed", map[string]interface{}{
			"application_id": appID,
			"status":         app.Status,
		})
		return nil, ErrApplicationNotPending
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin review transaction", tx.Error, map[string]interface{}{
			"application_id": appID,
		})
		return nil, tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Review transaction rolled back due to panic", nil, map[string]interface{}{
				"application_id": appID,
				"panic":          r,
			})
		}
	}()

	// Re-read inside the transaction with a row lock: two admins reviewing
	// the same application concurrently must not both pass the pending
	// check. The loser blocks here, re-reads the committed decision, and
	// gets refused below.
	var current model.ChefApplication
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, appID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !current.IsPending() {
		tx.Rollback()
		return nil, ErrApplicationNotPending
	}

	now := time.Now()
	current.Status = string(decision)
	current.AdminRemarks = remarks
	current.ReviewedAt = &now
	current.ReviewedBy = &reviewerID

	if err := tx.Save(&current).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update application in review transaction", err, map[string]interface{}{
			"application_id": appID,
		})
		return nil, err
	}

	if decision == DecisionApproved {
		if err := s.materializeChef(tx, &current, now); err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", current.UserID).
			Update("role", model.RoleChef).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to promote user in review transaction", err, map[string]interface{}{
				"application_id": appID,
				"user_id":        current.UserID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to commit review transaction", err, map[string]interface{}{
			"application_id": appID,
		})
		return nil, err
	}

	logger.Info("Chef application reviewed successfully", map[string]interface{}{
		"application_id": appID,
		"user_id":        current.UserID,
		"decision":       decision,
	})

	// Reload with the user association for the response DTO
	reviewed, err := s.applicationRepo.FindByID(appID)
	if err != nil {
		logger.Error("Failed to reload reviewed application", err, map[string]interface{}{
			"application_id": appID,
		})
		return nil, err
	}

	return reviewed, nil
}

// materializeChef inserts the Chef row for an approved application unless
// one already exists. A unique violation on chefs.user_id means another
// writer won the race; that is treated as success.
func (s *reviewService) materializeChef(tx *gorm.DB, app *model.ChefApplication, approvedAt time.Time) error {
	var count int64
	if err := tx.Model(&model.Chef{}).Where("user_id = ?", app.UserID).Count(&count).Error; err != nil {
		logger.Error("Failed to check existing chef profile in review transaction", err, map[string]interface{}{
			"user_id": app.UserID,
		})
		return err
	}
	if count > 0 {
		logger.Info("Chef profile already exists, skipping materialization", map[string]interface{}{
			"user_id": app.UserID,
		})
		return nil
	}

	chef := model.FromApplication(app, approvedAt)
	if err := tx.Create(chef).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Info("Concurrent chef materialization detected, treating as no-op", map[string]interface{}{
				"user_id": app.UserID,
			})
			return nil
		}
		logger.Error("Failed to create chef profile in review transaction", err, map[string]interface{}{
			"user_id": app.UserID,
		})
		return err
	}

	logger.Info("Chef profile materialized", map[string]interface{}{
		"chef_id": chef.ID,
		"user_id": app.UserID,
	})
	return nil
}

func (s *reviewService) PendingApplications() ([]model.ChefApplication, error) {
	return s.applicationRepo.FindAll(model.ApplicationStatusPending)
}
