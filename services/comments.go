package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warrenmedia/api-go/models"
	"github.com/warrenmedia/api-go/utils"
	"gorm.io/gorm"
)

// duplicateWindow is how far back identical content from the same user
// counts as a duplicate.
const duplicateWindow = time.Minute

type CommentService struct {
	db   *gorm.DB
	now  Clock
	bans *BanService
	rate *RateGate
}

func NewCommentService(db *gorm.DB, bans *BanService, rate *RateGate) *CommentService {
	return &CommentService{db: db, now: SystemClock, bans: bans, rate: rate}
}

type CreateCommentInput struct {
	TitleID         string `json:"titleId" validate:"required,max=64"`
	EpisodeID       string `json:"episodeId" validate:"max=64"`
	Content         string `json:"content" validate:"required,max=1000"`
	ParentCommentID string `json:"parentCommentId" validate:"max=36"`
}

type ListCommentsQuery struct {
	TitleID   string
	EpisodeID string
	ViewerID  string
}

type CommentView struct {
	models.Comment
	LikeCount      int     `json:"like_count"`
	LoveCount      int     `json:"love_count"`
	LaughCount     int     `json:"laugh_count"`
	TotalReactions int     `json:"total_reactions"`
	UserReaction   *string `json:"user_reaction"`
	DisplayName    string  `json:"display_name"`
}

// Create posts a comment. A banned user is rejected before any other check
// so they learn nothing about validation.
func (s *CommentService) Create(ctx context.Context, userID string, in CreateCommentInput) (*models.Comment, error) {
	if err := s.bans.EnsureNotBanned(ctx, userID, "You are banned from posting comments"); err != nil {
		return nil, err
	}
	if err := s.rate.Check(ctx, userID, models.ActionComment); err != nil {
		return nil, err
	}

	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()

	var dupes int64
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("user_id = ? AND content = ? AND created_at >= ?", userID, in.Content, now.Add(-duplicateWindow)).
		Count(&dupes).Error
	if err != nil {
		return nil, StoreError("Failed to create comment", err)
	}
	if dupes > 0 {
		return nil, ValidationError("Duplicate comment detected")
	}

	if in.ParentCommentID != "" {
		var parent models.Comment
		err := s.db.WithContext(ctx).Select("id", "title_id").First(&parent, "id = ?", in.ParentCommentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.TitleID != in.TitleID) {
			return nil, ValidationError("Invalid parent comment")
		}
		if err != nil {
			return nil, StoreError("Failed to create comment", err)
		}
	}

	comment := models.Comment{
		UserID:          userID,
		TitleID:         in.TitleID,
		EpisodeID:       utils.OptionalString(in.EpisodeID),
		ParentCommentID: utils.OptionalString(in.ParentCommentID),
		Content:         in.Content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, StoreError("Failed to create comment", err)
	}

	s.rate.Record(ctx, userID, models.ActionComment)
	return &comment, nil
}

// List returns the visible comments for a title (or one of its episodes),
// newest first, with reaction counts and display names.
func (s *CommentService) List(ctx context.Context, q ListCommentsQuery) ([]CommentView, error) {
	if q.TitleID == "" {
		return nil, ValidationError("Title ID required")
	}

	db := s.db.WithContext(ctx)

	query := db.Where("title_id = ? AND is_deleted = ? AND is_hidden = ?", q.TitleID, false, false).
		Order("created_at DESC")
	if q.EpisodeID != "" {
		query = query.Where("episode_id = ?", q.EpisodeID)
	} else {
		query = query.Where("episode_id IS NULL")
	}

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, StoreError("Failed to fetch comments", err)
	}

	views := make([]CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	commentIDs := make([]string, len(comments))
	userIDs := make([]string, 0, len(comments))
	for i, c := range comments {
		commentIDs[i] = c.ID
		userIDs = append(userIDs, c.UserID)
	}

	var counts []struct {
		CommentID    string
		ReactionType string
		Total        int
	}
	err := db.Model(&models.CommentReaction{}).
		Select("comment_id, reaction_type, COUNT(*) AS total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id, reaction_type").
		Scan(&counts).Error
	if err != nil {
		return nil, StoreError("Failed to fetch comments", err)
	}

	viewerReactions := map[string]string{}
	if q.ViewerID != "" {
		var mine []models.CommentReaction
		err := db.Where("comment_id IN ? AND user_id = ?", commentIDs, q.ViewerID).Find(&mine).Error
		if err != nil {
			return nil, StoreError("Failed to fetch comments", err)
		}
		for _, r := range mine {
			viewerReactions[r.CommentID] = r.ReactionType
		}
	}

	var profiles []models.UserProfile
	if err := db.Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, StoreError("Failed to fetch comments", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.UserID] = p.DisplayName
	}

	byComment := make(map[string]*CommentView, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Comment: c, DisplayName: displayName(names[c.UserID], c.UserID)})
	}
	for i := range views {
		byComment[views[i].ID] = &views[i]
		if r, ok := viewerReactions[views[i].ID]; ok {
			reaction := r
			views[i].UserReaction = &reaction
		}
	}
	for _, rc := range counts {
		v, ok := byComment[rc.CommentID]
		if !ok {
			continue
		}
		switch rc.ReactionType {
		case models.ReactionLike:
			v.LikeCount = rc.Total
		case models.ReactionLove:
			v.LoveCount = rc.Total
		case models.ReactionLaugh:
			v.LaughCount = rc.Total
		}
		v.TotalReactions += rc.Total
	}

	return views, nil
}

// Delete soft-deletes a comment owned by userID.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	if commentID == "" {
		return ValidationError("Comment ID required")
	}

	var comment models.Comment
	err := s.db.WithContext(ctx).Select("id", "user_id").First(&comment, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError("Comment not found")
	}
	if err != nil {
		return StoreError("Failed to delete comment", err)
	}

	if comment.UserID != userID {
		return ForbiddenError("Not authorized to delete this comment")
	}

	err = s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", commentID).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": s.now()}).Error
	if err != nil {
		return StoreError("Failed to delete comment", err)
	}
	return nil
}

func displayName(name, userID string) string {
	if name != "" {
		return name
	}
	short := userID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("User %s", short)
}
