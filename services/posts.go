package services

import (
	"context"
	"strings"

	"github.com/warrenmedia/api-go/models"
	"github.com/warrenmedia/api-go/utils"
	"gorm.io/gorm"
)

const creatorPostFeedSize = 20

type CreatorPostService struct {
	db       *gorm.DB
	now      Clock
	flags    *FlagGate
	creators *CreatorService
	bans     *BanService
	rate     *RateGate
}

func NewCreatorPostService(db *gorm.DB, flags *FlagGate, creators *CreatorService, bans *BanService, rate *RateGate) *CreatorPostService {
	return &CreatorPostService{db: db, now: SystemClock, flags: flags, creators: creators, bans: bans, rate: rate}
}

type CreatePostInput struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url,max=2048"`
	TitleID  string `json:"titleId" validate:"max=64"`
}

type ListPostsQuery struct {
	CreatorID string
	TitleID   string
}

// List returns the newest visible posts. With the feature off the feed is
// simply empty.
func (s *CreatorPostService) List(ctx context.Context, q ListPostsQuery) ([]models.CreatorPost, error) {
	posts := []models.CreatorPost{}
	if !s.flags.IsEnabled(ctx, models.FlagCreatorPosts) {
		return posts, nil
	}

	query := s.db.WithContext(ctx).
		Preload("Creator").
		Where("is_hidden = ?", false).
		Order("created_at DESC").
		Limit(creatorPostFeedSize)
	if q.CreatorID != "" {
		query = query.Where("creator_id = ?", q.CreatorID)
	}
	if q.TitleID != "" {
		query = query.Where("title_id = ?", q.TitleID)
	}

	if err := query.Find(&posts).Error; err != nil {
		return nil, StoreError("Failed to fetch creator posts", err)
	}
	return posts, nil
}

func (s *CreatorPostService) Create(ctx context.Context, userID string, in CreatePostInput) (*models.CreatorPost, error) {
	if !s.flags.IsEnabled(ctx, models.FlagCreatorPosts) {
		return nil, ForbiddenError("Creator posts feature is disabled")
	}

	if err := s.bans.EnsureNotBanned(ctx, userID, "You are banned from posting"); err != nil {
		return nil, err
	}
	creator, err := s.creators.RequireApproved(ctx, userID, "Only approved creators can post")
	if err != nil {
		return nil, err
	}
	if err := s.rate.Check(ctx, userID, models.ActionCreatorPost); err != nil {
		return nil, err
	}

	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	post := models.CreatorPost{
		CreatorID: creator.ID,
		TitleID:   utils.OptionalString(in.TitleID),
		Content:   in.Content,
		ImageURL:  utils.OptionalString(in.ImageURL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, StoreError("Failed to create creator post", err)
	}

	s.rate.Record(ctx, userID, models.ActionCreatorPost)
	return &post, nil
}

// AuthorizeImageUpload applies the posting gates that do not consume quota,
// before a post image is uploaded.
func (s *CreatorPostService) AuthorizeImageUpload(ctx context.Context, userID string) (*models.Creator, error) {
	if !s.flags.IsEnabled(ctx, models.FlagCreatorPosts) {
		return nil, ForbiddenError("Creator posts feature is disabled")
	}

	if err := s.bans.EnsureNotBanned(ctx, userID, "You are banned from posting"); err != nil {
		return nil, err
	}
	creator, err := s.creators.RequireApproved(ctx, userID, "Only approved creators can post")
	if err != nil {
		return nil, err
	}
	return creator, nil
}
