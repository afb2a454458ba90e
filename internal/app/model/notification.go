package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeApplicationSubmitted NotificationType = "application_submitted"
	NotificationTypeApplicationReviewed  NotificationType = "application_reviewed"
)

// Notification is an in-app notification, primarily for admins watching
// the review queue.
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Type    NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`
	Title   string           `gorm:"type:text;not null" json:"title"`
	Content string           `gorm:"type:text;not null" json:"content"`
	Link    string           `gorm:"type:text;not null" json:"link"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	RelatedApplicationID *uint `gorm:"index" json:"related_application_id,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationSettings holds a reviewer's notification preferences.
type NotificationSettings struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Review queue notifications for new chef applications
	ReviewQueueNotification bool `gorm:"default:true" json:"review_queue_notification"`
	// Cuisines the reviewer wants to be notified about; empty means all
	WatchedCuisines pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"watched_cuisines"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}
