package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusActioned  = "actioned"
	ReportStatusDismissed = "dismissed"
)

// Report is created pending and resolved exactly once. At most one pending
// report exists per (content, reporter).
type Report struct {
	ID              string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ContentKind     string     `gorm:"not null;type:varchar(20);uniqueIndex:idx_report_pending,where:status = 'pending'" json:"content_kind"` // comment, post, user
	ContentID       string     `gorm:"not null;type:varchar(64);uniqueIndex:idx_report_pending,where:status = 'pending'" json:"content_id"`
	ReporterID      string     `gorm:"not null;type:varchar(64);uniqueIndex:idx_report_pending,where:status = 'pending'" json:"reporter_id"`
	Reason          string     `gorm:"not null;type:text" json:"reason"`
	Status          string     `gorm:"not null;type:varchar(10);index" json:"status"` // pending, actioned, dismissed
	ReviewerID      *string    `gorm:"type:varchar(64)" json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// IsTerminal reports whether the report has already been resolved.
func (r *Report) IsTerminal() bool {
	return r.Status == ReportStatusActioned || r.Status == ReportStatusDismissed
}
