package models

import (
	"time"

	"gorm.io/gorm"
)

// VideoUpload tracks a direct upload handed to the video pipeline until it
// becomes a playable asset.
type VideoUpload struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UploadID        string    `gorm:"not null;uniqueIndex;type:varchar(128)" json:"upload_id"`
	CreatorID       string    `gorm:"not null;index;type:varchar(36)" json:"creator_id"`
	UserID          string    `gorm:"not null;index;type:varchar(64)" json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Status          string    `gorm:"type:varchar(32)" json:"status"`
	AssetID         string    `gorm:"type:varchar(128)" json:"asset_id,omitempty"`
	PlaybackID      string    `gorm:"type:varchar(128)" json:"playback_id,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	Ready           bool      `gorm:"not null;default:false" json:"ready"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u *VideoUpload) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}
