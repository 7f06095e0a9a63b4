package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CreatorStatusPending  = "pending"
	CreatorStatusApproved = "approved"
	CreatorStatusRejected = "rejected"
)

type Creator struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string     `gorm:"not null;uniqueIndex;type:varchar(64)" json:"user_id"`
	Email        string     `json:"email"`
	DisplayName  string     `gorm:"not null" json:"display_name"`
	Bio          string     `gorm:"type:text" json:"bio"`
	PortfolioURL string     `json:"portfolio_url"`
	Status       string     `gorm:"not null;type:varchar(10);index" json:"status"` // pending, approved, rejected
	AdminNotes   string     `json:"admin_notes,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (c *Creator) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
