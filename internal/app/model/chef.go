package model

import (
	"time"

	"gorm.io/gorm"
)

// Chef is the materialized professional profile created when an
// application is approved (or directly by an admin). The unique index on
// UserID is the schema-level guard: concurrent approvals for the same user
// cannot produce a second row.
type Chef struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	SpecialtyCuisine      string `gorm:"type:varchar(100);not null" json:"specialty_cuisine"`
	YearsOfExperience     int    `gorm:"not null" json:"years_of_experience"`
	CertificationName     string `gorm:"type:varchar(200)" json:"certification_name"`
	CertificationImageURL string `gorm:"type:text" json:"certification_image_url"`
	PortfolioLink         string `gorm:"type:text" json:"portfolio_link"`
	Biography             string `gorm:"type:text" json:"biography"`

	Rating       float64   `gorm:"default:0" json:"rating"`
	TotalReviews int       `gorm:"default:0" json:"total_reviews"`
	ApprovedAt   time.Time `json:"approved_at"`
}

func (Chef) TableName() string {
	return "chefs"
}

// FromApplication copies the professional fields of an approved application
// into a fresh Chef profile.
func FromApplication(app *ChefApplication, approvedAt time.Time) *Chef {
	return &Chef{
		UserID:                app.UserID,
		SpecialtyCuisine:      app.SpecialtyCuisine,
		YearsOfExperience:     app.YearsOfExperience,
		CertificationName:     app.CertificationName,
		CertificationImageURL: app.CertificationImageURL,
		PortfolioLink:         app.PortfolioLink,
		Biography:             app.Biography,
		Rating:                0,
		TotalReviews:          0,
		ApprovedAt:            approvedAt,
	}
}
