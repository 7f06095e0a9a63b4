package services

import (
	"context"
	"errors"
	"strings"

	"github.com/warrenmedia/api-go/clients"
	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

// VideoPipeline is the hosted service that ingests and transcodes uploads.
type VideoPipeline interface {
	CreateUpload(ctx context.Context, meta clients.UploadMetadata) (*clients.UploadTarget, error)
	UploadStatus(ctx context.Context, uploadID string) (*clients.UploadStatus, error)
}

type UploadService struct {
	db       *gorm.DB
	now      Clock
	pipeline VideoPipeline
	flags    *FlagGate
	creators *CreatorService
	rate     *RateGate
}

// NewUploadService accepts a nil pipeline; uploads then report the service
// as unavailable.
func NewUploadService(db *gorm.DB, pipeline VideoPipeline, flags *FlagGate, creators *CreatorService, rate *RateGate) *UploadService {
	return &UploadService{db: db, now: SystemClock, pipeline: pipeline, flags: flags, creators: creators, rate: rate}
}

type CreateUploadInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func (s *UploadService) Create(ctx context.Context, userID string, in CreateUploadInput) (*clients.UploadTarget, error) {
	if !s.flags.IsEnabled(ctx, models.FlagCreatorUploads) {
		return nil, ForbiddenError("Creator uploads are disabled")
	}

	creator, err := s.creators.RequireApproved(ctx, userID, "Only approved creators can upload videos")
	if err != nil {
		return nil, err
	}
	if err := s.rate.Check(ctx, userID, models.ActionUpload); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if s.pipeline == nil {
		return nil, UnavailableError("Video uploads are not configured")
	}

	target, err := s.pipeline.CreateUpload(ctx, clients.UploadMetadata{
		CreatorID:   creator.ID,
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return nil, UpstreamError("Failed to create upload URL", err)
	}

	now := s.now()
	upload := models.VideoUpload{
		UploadID:    target.UploadID,
		CreatorID:   creator.ID,
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      "waiting",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&upload).Error; err != nil {
		return nil, StoreError("Failed to save upload", err)
	}

	s.rate.Record(ctx, userID, models.ActionUpload)
	return target, nil
}

// Status asks the pipeline for progress on one of the caller's uploads and
// stores what it learns.
func (s *UploadService) Status(ctx context.Context, userID, uploadID string) (*clients.UploadStatus, error) {
	if uploadID == "" {
		return nil, ValidationError("Upload ID required")
	}
	if s.pipeline == nil {
		return nil, UnavailableError("Video uploads are not configured")
	}

	var upload models.VideoUpload
	err := s.db.WithContext(ctx).First(&upload, "upload_id = ? AND user_id = ?", uploadID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("Upload not found")
	}
	if err != nil {
		return nil, StoreError("Failed to check status", err)
	}

	status, err := s.pipeline.UploadStatus(ctx, uploadID)
	if err != nil {
		return nil, UpstreamError("Failed to check status", err)
	}

	err = s.db.WithContext(ctx).
		Model(&models.VideoUpload{}).
		Where("id = ?", upload.ID).
		Updates(map[string]interface{}{
			"status":           status.Status,
			"asset_id":         status.AssetID,
			"playback_id":      status.PlaybackID,
			"duration_seconds": status.Duration,
			"ready":            status.Ready,
			"updated_at":       s.now(),
		}).Error
	if err != nil {
		return nil, StoreError("Failed to save upload status", err)
	}
	return status, nil
}
