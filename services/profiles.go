package services

import (
	"context"
	"errors"
	"strings"

	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileService struct {
	db  *gorm.DB
	now Clock
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db, now: SystemClock}
}

type UpdateProfileInput struct {
	DisplayName string `json:"displayName" validate:"required,max=50"`
}

// Get returns the caller's profile. A user who never saved one gets an
// empty profile rather than an error.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, StoreError("Failed to load profile", err)
	}
	return &profile, nil
}

func (s *ProfileService) Upsert(ctx context.Context, userID string, in UpdateProfileInput) (*models.UserProfile, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	profile := models.UserProfile{
		UserID:      userID,
		DisplayName: in.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		return nil, StoreError("Failed to update profile", err)
	}

	return s.Get(ctx, userID)
}
