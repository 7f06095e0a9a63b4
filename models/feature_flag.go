package models

import (
	"time"
)

const (
	FlagCreatorUploads = "creator_uploads"
	FlagCreatorPosts   = "enable_creator_posts"
	FlagAds            = "enable_ads"
	FlagTracking       = "enable_tracking"
)

type FeatureFlag struct {
	Name        string    `gorm:"primaryKey;type:varchar(64)" json:"feature_name"`
	Enabled     bool      `gorm:"not null" json:"enabled"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultFeatureFlags are seeded disabled when missing.
var DefaultFeatureFlags = []FeatureFlag{
	{Name: FlagCreatorUploads, Description: "Allow approved creators to upload videos"},
	{Name: FlagCreatorPosts, Description: "Show the creator community feed and allow creator posts"},
	{Name: FlagAds, Description: "Play pre-roll ads before titles"},
	{Name: FlagTracking, Description: "Record playback analytics"},
}
