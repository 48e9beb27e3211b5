package models

import (
	"time"

	"gorm.io/gorm"
)

// Bookmark represents a saved URL owned by exactly one user.
//
// Tags and Folders are free-form string labels embedded in the row, not
// first-class entities. The application layer keeps tags lowercase and both
// arrays free of duplicates before any write; the database does not enforce
// either invariant.
type Bookmark struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	URL         string         `gorm:"not null" json:"url"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Notes       string         `json:"notes"`
	Tags        StringList     `gorm:"type:text" json:"tags"`
	Folders     StringList     `gorm:"type:text" json:"folders"`
	ArchiveURL  string         `json:"archive_url"`
	ToRead      bool           `gorm:"default:false" json:"to_read"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// HasTag reports whether the bookmark carries the given tag.
func (b *Bookmark) HasTag(name string) bool {
	return b.Tags.Contains(name)
}

// HasFolder reports whether the bookmark is filed under the given folder.
func (b *Bookmark) HasFolder(name string) bool {
	return b.Folders.Contains(name)
}
