package service

import (
	"errors"
	"time"

	"github.com/tastebase/tastebase-backend/internal/app/model"
	"github.com/tastebase/tastebase-backend/internal/app/repository"
	"github.com/tastebase/tastebase-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrChefNotFound      = errors.New("chef profile not found")
	ErrChefAlreadyExists = errors.New("chef profile already exists for this user")
)

// ChefInput carries the fields for direct admin creation of a chef profile
type ChefInput struct {
	UserID                uint
	SpecialtyCuisine      string
	YearsOfExperience     int
	CertificationName     string
	CertificationImageURL string
	PortfolioLink         string
	Biography             string
}

type ChefService interface {
	CreateChef(input ChefInput) (*model.Chef, error)
	GetByID(id uint) (*model.Chef, error)
	GetByUserID(userID uint) (*model.Chef, error)
	ListChefs() ([]model.Chef, error)
	DeleteChef(userID uint) error
}

type chefService struct {
	chefRepo repository.ChefRepository
	userRepo repository.UserRepository
}

func NewChefService(chefRepo repository.ChefRepository, userRepo repository.UserRepository) ChefService {
	return &chefService{
		chefRepo: chefRepo,
		userRepo: userRepo,
	}
}

// CreateChef materializes a chef profile directly, without an application.
// Admin-only path; the role promotion still applies.
func (s *chefService) CreateChef(input ChefInput) (*model.Chef, error) {
	logger.Info("Creating chef profile directly", map[string]interface{}{
		"user_id": input.UserID,
		"cuisine": input.SpecialtyCuisine,
	})

	exists, err := s.userRepo.ExistsByID(input.UserID)
	if err != nil {
		logger.Error("Failed to check user existence", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	hasChef, err := s.chefRepo.ExistsByUserID(input.UserID)
	if err != nil {
		logger.Error("Failed to check existing chef profile", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}
	if hasChef {
		logger.Warn("Chef creation refused: profile already exists", map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, ErrChefAlreadyExists
	}

	chef := &model.Chef{
		UserID:                input.UserID,
		SpecialtyCuisine:      input.SpecialtyCuisine,
		YearsOfExperience:     input.YearsOfExperience,
		CertificationName:     input.CertificationName,
		CertificationImageURL: input.CertificationImageURL,
		PortfolioLink:         input.PortfolioLink,
		Biography:             input.Biography,
		ApprovedAt:            time.Now(),
	}

	if err := s.chefRepo.Create(chef); err != nil {
		logger.Error("Failed to create chef profile", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}

	if err := s.userRepo.UpdateRole(input.UserID, model.RoleChef); err != nil {
		logger.Error("Failed to promote user after direct chef creation", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}

	logger.Info("Chef profile created successfully", map[string]interface{}{
		"chef_id": chef.ID,
		"user_id": input.UserID,
	})

	return chef, nil
}

func (s *chefService) GetByID(id uint) (*model.Chef, error) {
	chef, err := s.chefRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChefNotFound
		}
		return nil, err
	}
	return chef, nil
}

func (s *chefService) GetByUserID(userID uint) (*model.Chef, error) {
	chef, err := s.chefRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChefNotFound
		}
		return nil, err
	}
	return chef, nil
}

func (s *chefService) ListChefs() ([]model.Chef, error) {
	return s.chefRepo.FindAll()
}

// DeleteChef removes a chef profile. Historical applications are an audit
// trail and stay untouched; the user may apply again afterwards.
func (s *chefService) DeleteChef(userID uint) error {
	logger.Info("Deleting chef profile", map[string]interface{}{
		"user_id": userID,
	})

	_, err := s.chefRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChefNotFound
		}
		return err
	}

	if err := s.chefRepo.DeleteByUserID(userID); err != nil {
		return err
	}

	// demote back to a regular user so ownership checks stop passing
	if err := s.userRepo.UpdateRole(userID, model.RoleUser); err != nil {
		logger.Error("Failed to demote user after chef deletion", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Chef profile deleted successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
