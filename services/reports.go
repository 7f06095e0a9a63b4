package services

import (
	"context"
	"strings"

	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

type ReportService struct {
	db   *gorm.DB
	now  Clock
	rate *RateGate
}

func NewReportService(db *gorm.DB, rate *RateGate) *ReportService {
	return &ReportService{db: db, now: SystemClock, rate: rate}
}

type CreateReportInput struct {
	ContentType string `json:"contentType" validate:"required"`
	ContentID   string `json:"contentId" validate:"required,max=64"`
	Reason      string `json:"reason" validate:"required,max=500"`
}

// ReportWithContent pairs a report with the current state of its target.
// Content is nil when the target no longer exists.
type ReportWithContent struct {
	models.Report
	Content *ContentDetails `json:"content_details"`
}

// Create files a report. A reporter may not report the same item again
// while their earlier report is still pending; once it is resolved they may.
func (s *ReportService) Create(ctx context.Context, reporterID string, in CreateReportInput) (*models.Report, error) {
	if err := s.rate.Check(ctx, reporterID, models.ActionReport); err != nil {
		return nil, err
	}

	in.Reason = strings.TrimSpace(in.Reason)
	in.ContentID = strings.TrimSpace(in.ContentID)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	kind, ok := ParseContentKind(in.ContentType)
	if !ok {
		return nil, ValidationError("Invalid content type")
	}

	pending, err := s.hasPending(ctx, kind, in.ContentID, reporterID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ValidationError("You have already reported this content")
	}

	report := models.Report{
		ContentKind: string(kind),
		ContentID:   in.ContentID,
		ReporterID:  reporterID,
		Reason:      in.Reason,
		Status:      models.ReportStatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		// A concurrent identical report loses on the partial unique index.
		if pending, checkErr := s.hasPending(ctx, kind, in.ContentID, reporterID); checkErr == nil && pending {
			return nil, ValidationError("You have already reported this content")
		}
		return nil, StoreError("Failed to create report", err)
	}

	s.rate.Record(ctx, reporterID, models.ActionReport)
	return &report, nil
}

func (s *ReportService) hasPending(ctx context.Context, kind ContentKind, contentID, reporterID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("content_kind = ? AND content_id = ? AND reporter_id = ? AND status = ?",
			string(kind), contentID, reporterID, models.ReportStatusPending).
		Count(&count).Error
	if err != nil {
		return false, StoreError("Failed to check existing reports", err)
	}
	return count > 0, nil
}

// List returns reports newest first, optionally filtered by status, each
// with the details moderators need to act on it.
func (s *ReportService) List(ctx context.Context, status string, limit int) ([]ReportWithContent, error) {
	switch status {
	case "", "all":
		status = ""
	case models.ReportStatusPending, models.ReportStatusActioned, models.ReportStatusDismissed:
	default:
		return nil, ValidationError("Invalid status filter")
	}

	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var reports []models.Report
	if err := q.Find(&reports).Error; err != nil {
		return nil, StoreError("Failed to load reports", err)
	}

	out := make([]ReportWithContent, 0, len(reports))
	for _, r := range reports {
		item := ReportWithContent{Report: r}

		kind, ok := ParseContentKind(r.ContentKind)
		if ok {
			details, err := lookupContent(s.db.WithContext(ctx), kind, r.ContentID)
			switch KindOf(err) {
			case 0:
				item.Content = details
			case KindNotFound:
			default:
				return nil, err
			}
		}

		out = append(out, item)
	}
	return out, nil
}
