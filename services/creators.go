package services

import (
	"context"
	"errors"
	"strings"

	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

type CreatorService struct {
	db  *gorm.DB
	now Clock
}

func NewCreatorService(db *gorm.DB) *CreatorService {
	return &CreatorService{db: db, now: SystemClock}
}

type CreatorApplicationInput struct {
	DisplayName  string `json:"displayName" validate:"required,max=80"`
	Bio          string `json:"bio" validate:"max=2000"`
	PortfolioURL string `json:"portfolioUrl" validate:"omitempty,url"`
}

type ReviewCreatorInput struct {
	Status     string `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes string `json:"adminNotes" validate:"max=1000"`
}

func (s *CreatorService) Apply(ctx context.Context, userID, email string, in CreatorApplicationInput) (*models.Creator, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Creator{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, StoreError("Failed to submit application", err)
	}
	if count > 0 {
		return nil, ConflictError("You have already applied")
	}

	now := s.now()
	creator := models.Creator{
		UserID:       userID,
		Email:        email,
		DisplayName:  in.DisplayName,
		Bio:          in.Bio,
		PortfolioURL: in.PortfolioURL,
		Status:       models.CreatorStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&creator).Error; err != nil {
		return nil, StoreError("Failed to submit application", err)
	}
	return &creator, nil
}

func (s *CreatorService) ForUser(ctx context.Context, userID string) (*models.Creator, error) {
	var creator models.Creator
	err := s.db.WithContext(ctx).First(&creator, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("Creator profile not found")
	}
	if err != nil {
		return nil, StoreError("Failed to load creator profile", err)
	}
	return &creator, nil
}

// RequireApproved returns the user's creator record, or a ForbiddenError
// with msg unless the creator has been approved.
func (s *CreatorService) RequireApproved(ctx context.Context, userID, msg string) (*models.Creator, error) {
	creator, err := s.ForUser(ctx, userID)
	if KindOf(err) == KindNotFound {
		return nil, ForbiddenError(msg)
	}
	if err != nil {
		return nil, err
	}
	if creator.Status != models.CreatorStatusApproved {
		return nil, ForbiddenError(msg)
	}
	return creator, nil
}

func (s *CreatorService) List(ctx context.Context, status string, limit int) ([]models.Creator, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	switch status {
	case "", "all":
	case models.CreatorStatusPending, models.CreatorStatusApproved, models.CreatorStatusRejected:
		q = q.Where("status = ?", status)
	default:
		return nil, ValidationError("Invalid status filter")
	}

	creators := []models.Creator{}
	if err := q.Find(&creators).Error; err != nil {
		return nil, StoreError("Failed to load creators", err)
	}
	return creators, nil
}

func (s *CreatorService) Review(ctx context.Context, creatorID string, in ReviewCreatorInput) (*models.Creator, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	res := s.db.WithContext(ctx).
		Model(&models.Creator{}).
		Where("id = ?", creatorID).
		Updates(map[string]interface{}{
			"status":      in.Status,
			"admin_notes": in.AdminNotes,
			"reviewed_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return nil, StoreError("Failed to update creator", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NotFoundError("Creator not found")
	}

	var creator models.Creator
	if err := s.db.WithContext(ctx).First(&creator, "id = ?", creatorID).Error; err != nil {
		return nil, StoreError("Failed to load creator", err)
	}
	return &creator, nil
}
