package services

import (
	"context"
	"errors"

	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

const (
	ReactionAdded   = "added"
	ReactionUpdated = "updated"
	ReactionRemoved = "removed"
)

type ReactionService struct {
	db   *gorm.DB
	now  Clock
	bans *BanService
	rate *RateGate
}

func NewReactionService(db *gorm.DB, bans *BanService, rate *RateGate) *ReactionService {
	return &ReactionService{db: db, now: SystemClock, bans: bans, rate: rate}
}

type ReactInput struct {
	CommentID    string `json:"commentId" validate:"required,max=36"`
	ReactionType string `json:"reactionType" validate:"required,reaction"`
}

type ReactionResult struct {
	Action       string `json:"action"`
	ReactionType string `json:"reactionType"`
}

// Toggle applies a reaction: the same type again removes it, a different
// type replaces it. Only a new reaction counts against the rate limit.
func (s *ReactionService) Toggle(ctx context.Context, userID string, in ReactInput) (*ReactionResult, error) {
	if err := s.bans.EnsureNotBanned(ctx, userID, "You are banned from reacting"); err != nil {
		return nil, err
	}
	if err := s.rate.Check(ctx, userID, models.ActionReaction); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var comment models.Comment
	err := db.Select("id").
		Where("id = ? AND is_deleted = ? AND is_hidden = ?", in.CommentID, false, false).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("Comment not found")
	}
	if err != nil {
		return nil, StoreError("Failed to handle reaction", err)
	}

	var existing models.CommentReaction
	err = db.Where("comment_id = ? AND user_id = ?", in.CommentID, userID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := models.CommentReaction{
			CommentID:    in.CommentID,
			UserID:       userID,
			ReactionType: in.ReactionType,
			CreatedAt:    s.now(),
		}
		if err := db.Create(&reaction).Error; err != nil {
			return nil, StoreError("Failed to handle reaction", err)
		}
		s.rate.Record(ctx, userID, models.ActionReaction)
		return &ReactionResult{Action: ReactionAdded, ReactionType: in.ReactionType}, nil

	case err != nil:
		return nil, StoreError("Failed to handle reaction", err)

	case existing.ReactionType == in.ReactionType:
		if err := db.Delete(&existing).Error; err != nil {
			return nil, StoreError("Failed to handle reaction", err)
		}
		return &ReactionResult{Action: ReactionRemoved, ReactionType: in.ReactionType}, nil

	default:
		if err := db.Model(&existing).Update("reaction_type", in.ReactionType).Error; err != nil {
			return nil, StoreError("Failed to handle reaction", err)
		}
		return &ReactionResult{Action: ReactionUpdated, ReactionType: in.ReactionType}, nil
	}
}
