package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BanScopeComment = "comment"
	BanScopeFull    = "full"
)

// Ban restricts an actor. A nil ExpiresAt means permanent. Once IsActive is
// false the row is never reactivated; re-banning inserts a new row.
type Ban struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ActorID   string     `gorm:"not null;index:idx_ban_actor_active;type:varchar(64)" json:"actor_id"`
	IssuedBy  string     `gorm:"not null;type:varchar(64)" json:"issued_by"`
	Reason    string     `gorm:"not null;type:text" json:"reason"`
	Scope     string     `gorm:"not null;type:varchar(10)" json:"scope"` // comment, full
	ExpiresAt *time.Time `json:"expires_at"`
	IsActive  bool       `gorm:"not null;index:idx_ban_actor_active" json:"is_active"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (b *Ban) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// InEffect reports whether the ban restricts its actor at the given instant.
func (b *Ban) InEffect(now time.Time) bool {
	return b.IsActive && (b.ExpiresAt == nil || b.ExpiresAt.After(now))
}
