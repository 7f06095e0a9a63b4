package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

// BanService answers "is this actor banned" and manages ban rows.
//
// Expiry is enforced when reading: a row whose expires_at has passed no
// longer bans its actor even though is_active is still true. No job flips
// expired rows.
type BanService struct {
	db  *gorm.DB
	now Clock
}

func NewBanService(db *gorm.DB) *BanService {
	return &BanService{db: db, now: SystemClock}
}

type IssueBanInput struct {
	UserID        string `json:"userId" validate:"required,max=64"`
	Reason        string `json:"reason" validate:"required,max=500"`
	DurationHours *int   `json:"durationHours" validate:"omitempty,min=1"`
	Scope         string `json:"scope" validate:"omitempty,oneof=comment full"`
}

// IsBanned hits the store on every call. Errors are returned, never
// treated as "not banned".
func (s *BanService) IsBanned(ctx context.Context, actorID string) (bool, error) {
	var count int64
	err := inEffect(s.db.WithContext(ctx).Model(&models.Ban{}), s.now()).
		Where("actor_id = ?", actorID).
		Count(&count).Error
	if err != nil {
		return false, StoreError("Failed to check ban status", err)
	}
	return count > 0, nil
}

// EnsureNotBanned returns a ForbiddenError carrying msg when the actor is banned.
func (s *BanService) EnsureNotBanned(ctx context.Context, actorID, msg string) error {
	banned, err := s.IsBanned(ctx, actorID)
	if err != nil {
		return err
	}
	if banned {
		return ForbiddenError(msg)
	}
	return nil
}

// Issue creates a ban directly, outside the report workflow.
func (s *BanService) Issue(ctx context.Context, issuerID string, in IssueBanInput) (*models.Ban, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	scope := in.Scope
	if scope == "" {
		scope = models.BanScopeComment
	}

	ban := newBan(in.UserID, issuerID, in.Reason, scope, in.DurationHours, s.now())
	if err := s.db.WithContext(ctx).Create(&ban).Error; err != nil {
		return nil, StoreError("Failed to create ban", err)
	}
	return &ban, nil
}

// Deactivate lifts a ban. Deactivation is final for the row.
func (s *BanService) Deactivate(ctx context.Context, banID string) (*models.Ban, error) {
	var ban models.Ban
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ban, "id = ?", banID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Ban not found")
			}
			return err
		}

		res := tx.Model(&models.Ban{}).
			Where("id = ? AND is_active = ?", banID, true).
			Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ConflictError("Ban is already inactive")
		}

		ban.IsActive = false
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "Failed to remove ban")
	}
	return &ban, nil
}

// ListActive returns bans currently in effect, newest first.
func (s *BanService) ListActive(ctx context.Context, limit int) ([]models.Ban, error) {
	bans := []models.Ban{}
	err := inEffect(s.db.WithContext(ctx), s.now()).
		Order("created_at DESC").
		Limit(limit).
		Find(&bans).Error
	if err != nil {
		return nil, StoreError("Failed to load bans", err)
	}
	return bans, nil
}

func inEffect(q *gorm.DB, now time.Time) *gorm.DB {
	return q.Where("is_active = ? AND (expires_at IS NULL OR expires_at > ?)", true, now)
}

func newBan(actorID, issuerID, reason, scope string, durationHours *int, now time.Time) models.Ban {
	ban := models.Ban{
		ActorID:   actorID,
		IssuedBy:  issuerID,
		Reason:    reason,
		Scope:     scope,
		IsActive:  true,
		CreatedAt: now,
	}
	if durationHours != nil {
		expires := now.Add(time.Duration(*durationHours) * time.Hour)
		ban.ExpiresAt = &expires
	}
	return ban
}
