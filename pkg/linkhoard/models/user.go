package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account that owns bookmarks
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	AvatarURL    string         `json:"avatar_url,omitempty"`

	// Relationships
	Bookmarks   []Bookmark   `gorm:"foreignKey:UserID" json:"bookmarks,omitempty"`
	Preferences []Preference `gorm:"foreignKey:UserID" json:"preferences,omitempty"`
}
