package models

import (
	"time"
)

const (
	ActionComment     = "comment"
	ActionReaction    = "reaction"
	ActionReport      = "report"
	ActionCreatorPost = "creator_post"
	ActionUpload      = "upload"
	ActionAuthAttempt = "auth_attempt"
)

// RateLimitEvent is append-only. ActorID holds a user id, or a hashed
// identifier for auth attempts.
type RateLimitEvent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID    string    `gorm:"not null;type:varchar(128);index:idx_rate_limit_lookup" json:"actor_id"`
	ActionType string    `gorm:"not null;type:varchar(20);index:idx_rate_limit_lookup" json:"action_type"`
	CreatedAt  time.Time `gorm:"not null;index:idx_rate_limit_lookup" json:"created_at"`
}
