package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID              string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string     `gorm:"not null;index;type:varchar(64)" json:"user_id"`
	TitleID         string     `gorm:"not null;index;type:varchar(64)" json:"title_id"`
	EpisodeID       *string    `gorm:"index;type:varchar(64)" json:"episode_id"`
	ParentCommentID *string    `gorm:"type:varchar(36)" json:"parent_comment_id"`
	Content         string     `gorm:"not null;type:text" json:"content"`
	IsDeleted       bool       `gorm:"not null;default:false" json:"is_deleted"`
	IsHidden        bool       `gorm:"not null;default:false" json:"is_hidden"`
	HiddenBy        *string    `gorm:"type:varchar(64)" json:"hidden_by,omitempty"`
	HiddenAt        *time.Time `json:"hidden_at,omitempty"`
	HiddenReason    string     `json:"hidden_reason,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
)

// CommentReaction is unique per (comment, user); switching reaction type
// updates the row in place.
type CommentReaction struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CommentID    string    `gorm:"not null;uniqueIndex:idx_reaction_comment_user;type:varchar(36)" json:"comment_id"`
	UserID       string    `gorm:"not null;uniqueIndex:idx_reaction_comment_user;type:varchar(64)" json:"user_id"`
	ReactionType string    `gorm:"not null;type:varchar(10)" json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r *CommentReaction) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
