package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/metrics"
	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

// Dispatcher resolves pending reports. Every action moves the report from
// pending to a terminal status exactly once: the transition is a
// conditional update inside the same transaction as the content change or
// ban, so a second resolution of the same report fails with a conflict and
// applies nothing.
//
// Callers must already have checked that the caller is a moderator.
type Dispatcher struct {
	db      *gorm.DB
	now     Clock
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewDispatcher(db *gorm.DB, log logrus.FieldLogger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{db: db, now: SystemClock, log: log, metrics: m}
}

type BanActorInput struct {
	Reason        string `json:"reason" validate:"required,max=500"`
	DurationHours *int   `json:"durationHours" validate:"omitempty,min=1"`
}

// Hide hides the reported comment or post and marks the report actioned.
func (d *Dispatcher) Hide(ctx context.Context, reportID, moderatorID string) (*models.Report, error) {
	report, err := d.resolve(ctx, reportID, moderatorID, models.ReportStatusActioned, "Content hidden",
		func(tx *gorm.DB, report *models.Report) error {
			kind, ok := ParseContentKind(report.ContentKind)
			if !ok {
				return ValidationError("Invalid content type")
			}
			ct := contentTypes[kind]
			if ct.hide == nil {
				return ValidationError("This content type cannot be hidden")
			}

			err := ct.hide(tx, report.ContentID, hideRequest{
				By:     moderatorID,
				At:     d.now(),
				Reason: report.Reason,
			})
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Reported content not found")
			}
			return err
		})
	if err != nil {
		return nil, err
	}

	d.metrics.ObserveModerationAction("hide")
	d.log.WithFields(logrus.Fields{
		"report_id":    report.ID,
		"content_kind": report.ContentKind,
		"content_id":   report.ContentID,
		"moderator_id": moderatorID,
	}).Info("content hidden")
	return report, nil
}

// BanActor bans the author of the reported content and marks the report
// actioned. The author comes from the content row, not from the report's
// content id.
func (d *Dispatcher) BanActor(ctx context.Context, reportID, moderatorID string, in BanActorInput) (*models.Report, *models.Ban, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}

	var ban models.Ban
	report, err := d.resolve(ctx, reportID, moderatorID, models.ReportStatusActioned, "User banned",
		func(tx *gorm.DB, report *models.Report) error {
			kind, ok := ParseContentKind(report.ContentKind)
			if !ok {
				return ValidationError("Invalid content type")
			}
			details, err := lookupContent(tx, kind, report.ContentID)
			if err != nil {
				return err
			}

			ban = newBan(details.AuthorID, moderatorID, in.Reason, models.BanScopeComment, in.DurationHours, d.now())
			return tx.Create(&ban).Error
		})
	if err != nil {
		return nil, nil, err
	}

	d.metrics.ObserveModerationAction("ban")
	d.log.WithFields(logrus.Fields{
		"report_id":    report.ID,
		"actor_id":     ban.ActorID,
		"moderator_id": moderatorID,
		"permanent":    ban.ExpiresAt == nil,
	}).Info("actor banned")
	return report, &ban, nil
}

// Dismiss closes the report without touching the content.
func (d *Dispatcher) Dismiss(ctx context.Context, reportID, moderatorID string) (*models.Report, error) {
	report, err := d.resolve(ctx, reportID, moderatorID, models.ReportStatusDismissed, "", nil)
	if err != nil {
		return nil, err
	}

	d.metrics.ObserveModerationAction("dismiss")
	return report, nil
}

func (d *Dispatcher) resolve(
	ctx context.Context,
	reportID, moderatorID, status, notes string,
	apply func(tx *gorm.DB, report *models.Report) error,
) (*models.Report, error) {
	var report models.Report

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := d.now()
		res := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, models.ReportStatusPending).
			Updates(map[string]interface{}{
				"status":           status,
				"reviewer_id":      moderatorID,
				"reviewed_at":      now,
				"resolution_notes": notes,
			})
		if res.Error != nil {
			return res.Error
		}

		if err := tx.First(&report, "id = ?", reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Report not found")
			}
			return err
		}
		if res.RowsAffected == 0 {
			return ConflictError("Report has already been resolved")
		}

		if apply != nil {
			return apply(tx, &report)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "Failed to resolve report")
	}
	return &report, nil
}
