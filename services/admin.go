package services

import (
	"context"

	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

// AdminDirectory answers admin membership from the admin_users table.
type AdminDirectory struct {
	db *gorm.DB
}

func NewAdminDirectory(db *gorm.DB) *AdminDirectory {
	return &AdminDirectory{db: db}
}

func (d *AdminDirectory) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	var count int64
	err := d.db.WithContext(ctx).Model(&models.AdminUser{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, StoreError("Failed to check admin status", err)
	}
	return count > 0, nil
}
