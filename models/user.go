package models

import (
	"time"
)

// UserProfile holds the public display data for an account managed by the
// hosted auth provider. UserID is the provider's subject id.
type UserProfile struct {
	UserID      string    `gorm:"primaryKey;type:varchar(64)" json:"user_id"`
	DisplayName string    `gorm:"type:varchar(50)" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AdminUser struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
