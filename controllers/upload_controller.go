package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/config"
	"github.com/warrenmedia/api-go/services"
	"github.com/warrenmedia/api-go/utils"
)

const (
	maxImageSize       = 10 * 1024 * 1024
	imageURLExpiry     = time.Hour
	imageURLExpirySecs = 3600
	imageKeyPrefix     = "creator-posts"
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

type UploadController struct {
	Presigner *s3.PresignClient
	R2Config  *config.R2Config
	Uploads   *services.UploadService
	Posts     *services.CreatorPostService
	Log       logrus.FieldLogger
}

type ImageUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewR2Client(r2Config *config.R2Config) *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint: aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2Config.AccountID)),
		Credentials: credentials.NewStaticCredentialsProvider(
			r2Config.AccessKeyID,
			r2Config.SecretAccessKey,
			"",
		),
		Region: r2Config.Region,
	})
}

func NewUploadController(r2Client *s3.Client, r2Config *config.R2Config, uploads *services.UploadService, posts *services.CreatorPostService, log logrus.FieldLogger) *UploadController {
	return &UploadController{
		Presigner: s3.NewPresignClient(r2Client),
		R2Config:  r2Config,
		Uploads:   uploads,
		Posts:     posts,
		Log:       log,
	}
}

// GetImageUploadURL godoc
// @Summary Presigned PUT URL for a creator post image
// @Tags uploads
// @Accept json
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /uploads/image [post]
func (uc *UploadController) GetImageUploadURL(c *gin.Context) {
	user := utils.GetUser(c)

	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	if !validImageTypes[req.ContentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	}
	if req.FileSize <= 0 || req.FileSize > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds limit"})
		return
	}

	creator, err := uc.Posts.AuthorizeImageUpload(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	key := generateImageKey(creator.ID, req.FileName)
	presignedURL, err := uc.createPresignedURL(c.Request.Context(), key, req.ContentType)
	if err != nil {
		uc.Log.WithFields(logrus.Fields{
			"user_id": user.UserID,
			"error":   err.Error(),
		}).Error("failed to presign image upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presignedURL,
			FileURL:   fmt.Sprintf("%s/%s", strings.TrimRight(uc.R2Config.PublicURL, "/"), key),
			Key:       key,
			ExpiresIn: imageURLExpirySecs,
		},
		Message: "Presigned URL generated successfully",
	})
}

// CreateVideoUpload godoc
// @Summary Open a direct video upload with the video pipeline
// @Tags uploads
// @Accept json
// @Produce json
// @Success 201 {object} StandardResponse
// @Failure 503 {object} map[string]string
// @Router /uploads/video [post]
func (uc *UploadController) CreateVideoUpload(c *gin.Context) {
	user := utils.GetUser(c)

	var req services.CreateUploadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	target, err := uc.Uploads.Create(c.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    target,
	})
}

func (uc *UploadController) GetVideoUploadStatus(c *gin.Context) {
	user := utils.GetUser(c)

	status, err := uc.Uploads.Status(c.Request.Context(), user.UserID, c.Param("uploadId"))
	if err != nil {
		respondError(c, uc.Log, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    status,
	})
}

func generateImageKey(creatorID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%s/%d_%s%s", imageKeyPrefix, creatorID, time.Now().Unix(), uuid.New().String(), ext)
}

func (uc *UploadController) createPresignedURL(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	req, err := uc.Presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = imageURLExpiry
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
