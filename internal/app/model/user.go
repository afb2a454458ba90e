package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleChef  UserRole = "chef"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	FullName     string         `gorm:"not null" json:"full_name"`
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	IsBanned     bool           `gorm:"default:false;not null" json:"is_banned"`
	AvatarURL    string         `gorm:"type:text" json:"avatar_url"`
	CreatedAt    time.Time      `json:"created_at"` // join date
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Chef *Chef `gorm:"foreignKey:UserID" json:"chef,omitempty"`
}

func (User) TableName() string {
	return "users"
}
