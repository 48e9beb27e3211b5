package models

import (
	"time"
)

// Preference keys used by the application.
const (
	PrefLastBackup  = "last_backup"
	PrefArchiveBase = "archive_base"
	PrefPageSize    = "page_size"
)

// Preference is a per-user key/value setting. This is where state the web
// client used to keep in browser local storage lives: last backup timestamp,
// archive service base domain, pagination display preference.
type Preference struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_pref_user_key" json:"user_id"`
	Key       string    `gorm:"not null;uniqueIndex:idx_pref_user_key" json:"key"`
	Value     string    `json:"value"`
}
