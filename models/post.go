package models

import (
	"time"

	"gorm.io/gorm"
)

type CreatorPost struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatorID    string     `gorm:"not null;index;type:varchar(36)" json:"creator_id"`
	Creator      *Creator   `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	TitleID      *string    `gorm:"index;type:varchar(64)" json:"title_id"`
	Content      string     `gorm:"not null;type:text" json:"content"`
	ImageURL     *string    `json:"image_url"`
	IsHidden     bool       `gorm:"not null;default:false" json:"is_hidden"`
	HiddenBy     *string    `gorm:"type:varchar(64)" json:"hidden_by,omitempty"`
	HiddenAt     *time.Time `json:"hidden_at,omitempty"`
	HiddenReason string     `json:"hidden_reason,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (p *CreatorPost) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
