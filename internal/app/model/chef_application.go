package model

import (
	"time"

	"gorm.io/gorm"
)

// Application status lifecycle. Pending is the only non-terminal state:
// an application is reviewed at most once.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// ValidApplicationStatus reports whether s is a known status value
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// ChefApplication is a user's request to be promoted to chef status,
// carrying professional credentials.
type ChefApplication struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"` // applied date
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Professional credentials
	SpecialtyCuisine      string `gorm:"type:varchar(100);not null" json:"specialty_cuisine"`
	YearsOfExperience     int    `gorm:"not null" json:"years_of_experience"`
	CertificationName     string `gorm:"type:varchar(200)" json:"certification_name"`
	CertificationImageURL string `gorm:"type:text" json:"certification_image_url"`
	PortfolioLink         string `gorm:"type:text" json:"portfolio_link"`
	Biography             string `gorm:"type:text;not null" json:"biography"`

	// Review state
	Status       string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AdminRemarks string     `gorm:"type:text" json:"admin_remarks"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy   *uint      `json:"reviewed_by,omitempty"` // reviewing admin's user id
}

func (ChefApplication) TableName() string {
	return "chef_applications"
}

// IsPending reports whether the application can still be reviewed or deleted
func (a *ChefApplication) IsPending() bool {
	return a.Status == ApplicationStatusPending
}
