package service

import (
	"errors"

	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound   = errors.New("application not found")
	ErrDuplicateApplication  = errors.New("you already have a pending application")
	ErrAlreadyChef           = errors.New("you are already a chef")
	ErrNotApplicationOwner   = errors.New("application belongs to another user")
	ErrApplicationNotPending = errors.New("application has already been reviewed")
)

// ApplicationInput carries the credentials of a chef application submission
type ApplicationInput struct {
	SpecialtyCuisine      string
	YearsOfExperience     int
	CertificationName     string
	CertificationImageURL string
	PortfolioLink         string
	Biography             string
}

// StatusCounts is a point-in-time tally of applications per status
type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type ApplicationService interface {
	Submit(userID uint, input ApplicationInput) (*model.ChefApplication, error)
	GetByID(id uint) (*model.ChefApplication, error)
	ListByUser(userID uint) ([]model.ChefApplication, error)
	List(status string) ([]model.ChefApplication, error)
	Delete(id, callerUserID uint) error
	GetStatusCounts() (*StatusCounts, error)
}

type applicationService struct {
	applicationRepo repository.ChefApplicationRepository
	chefRepo        repository.ChefRepository
	userRepo        repository.UserRepository
}

func NewApplicationService(
	applicationRepo repository.ChefApplicationRepository,
	chefRepo repository.ChefRepository,
	userRepo repository.UserRepository,
) ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		chefRepo:        chefRepo,
		userRepo:        userRepo,
	}
}

// Submit creates a pending application after the duplicate guards pass:
// the user must exist, must not already be a chef, and must not have a
// pending or approved application on file.
func (s *applicationService) Submit(userID uint, input ApplicationInput) (*model.ChefApplication, error) {
	logger.Info("Submitting chef application", map[string]interface{}{
		"user_id": userID,
		"cuisine": input.SpecialtyCuisine,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Application submission failed: user not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to look up applicant", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if user.IsBanned {
		logger.Warn("Application submission refused: user is banned", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrUserBanned
	}

	isChef, err := s.chefRepo.ExistsByUserID(userID)
	if err != nil {
		logger.Error("Failed to check existing chef profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if isChef {
		logger.Warn("Application submission refused: chef profile already exists", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrAlreadyChef
	}

	hasActive, err := s.applicationRepo.HasActiveApplication(userID)
	if err != nil {
		logger.Error("Failed to check active applications", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if hasActive {
		logger.Warn("Application submission refused: active application exists", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrDuplicateApplication
	}

	app := &model.ChefApplication{
		UserID:                userID,
		SpecialtyCuisine:      input.SpecialtyCuisine,
		YearsOfExperience:     input.YearsOfExperience,
		CertificationName:     input.CertificationName,
		CertificationImageURL: input.CertificationImageURL,
		PortfolioLink:         input.PortfolioLink,
		Biography:             input.Biography,
		Status:                model.ApplicationStatusPending,
		AdminRemarks:          "",
	}

	if err := s.applicationRepo.Create(app); err != nil {
		logger.Error("Failed to create chef application", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	app.User = user

	logger.Info("Chef application submitted successfully", map[string]interface{}{
		"application_id": app.ID,
		"user_id":        userID,
	})

	return app, nil
}

func (s *applicationService) GetByID(id uint) (*model.ChefApplication, error) {
	app, err := s.applicationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		logger.Error("Failed to fetch chef application", err, map[string]interface{}{
			"application_id": id,
		})
		return nil, err
	}
	return app, nil
}

func (s *applicationService) ListByUser(userID uint) ([]model.ChefApplication, error) {
	return s.applicationRepo.FindByUserID(userID)
}

func (s *applicationService) List(status string) ([]model.ChefApplication, error) {
	return s.applicationRepo.FindAll(status)
}

// Delete removes an application. Owner-only, and only while it is still
// pending; reviewed applications are immutable.
func (s *applicationService) Delete(id, callerUserID uint) error {
	logger.Info("Deleting chef application", map[string]interface{}{
		"application_id": id,
		"caller_user_id": callerUserID,
	})

	app, err := s.applicationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		logger.Error("Failed to fetch application for deletion", err, map[string]interface{}{
			"application_id": id,
		})
		return err
	}

	if app.UserID != callerUserID {
		logger.Warn("Application deletion refused: caller is not the owner", map[string]interface{}{
			"application_id": id,
			"owner_id":       app.UserID,
			"caller_user_id": callerUserID,
		})
		return ErrNotApplicationOwner
	}

	if !app.IsPending() {
		logger.Warn("Application deletion refused: already reviewed", map[string]interface{}{
			"application_id": id,
			"status":         app.Status,
		})
		return ErrApplicationNotPending
	}

	if err := s.applicationRepo.Delete(id); err != nil {
		logger.Error("Failed to delete chef application", err, map[string]interface{}{
			"application_id": id,
		})
		return err
	}

	logger.Info("Chef application deleted successfully", map[string]interface{}{
		"application_id": id,
	})
	return nil
}

func (s *applicationService) GetStatusCounts() (*StatusCounts, error) {
	counts, err := s.applicationRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	return &StatusCounts{
		Pending:  counts[model.ApplicationStatusPending],
		Approved: counts[model.ApplicationStatusApproved],
		Rejected: counts[model.ApplicationStatusRejected],
	}, nil
}
