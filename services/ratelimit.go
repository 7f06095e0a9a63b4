package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/config"
	"github.com/warrenmedia/api-go/metrics"
	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
)

// Limiter counts an actor's events of one action type in a trailing window.
//
// WithinLimit is read-only and fails open: when the backing store cannot be
// reached it reports the action as allowed. RecordEvent is called only after
// the gated action succeeded, so failed actions do not consume quota.
//
// Checking and recording are separate calls, so concurrent requests from the
// same actor can both pass the check before either records. The limit is
// best-effort under such bursts.
type Limiter interface {
	WithinLimit(ctx context.Context, actorID, action string, limit int, window time.Duration) bool
	RecordEvent(ctx context.Context, actorID, action string) error
}

// DBLimiter keeps one rate_limit_events row per recorded action.
type DBLimiter struct {
	db      *gorm.DB
	now     Clock
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewDBLimiter(db *gorm.DB, log logrus.FieldLogger, m *metrics.Metrics) *DBLimiter {
	return &DBLimiter{db: db, now: SystemClock, log: log, metrics: m}
}

func (l *DBLimiter) WithinLimit(ctx context.Context, actorID, action string, limit int, window time.Duration) bool {
	windowStart := l.now().Add(-window)

	var count int64
	err := l.db.WithContext(ctx).
		Model(&models.RateLimitEvent{}).
		Where("actor_id = ? AND action_type = ? AND created_at >= ?", actorID, action, windowStart).
		Count(&count).Error
	if err != nil {
		l.metrics.ObserveRateLimitStoreError()
		l.log.WithFields(logrus.Fields{
			"action": action,
			"error":  err.Error(),
		}).Warn("rate limit check failed, allowing request")
		return true
	}

	return count < int64(limit)
}

func (l *DBLimiter) RecordEvent(ctx context.Context, actorID, action string) error {
	event := models.RateLimitEvent{
		ActorID:    actorID,
		ActionType: action,
		CreatedAt:  l.now(),
	}
	return l.db.WithContext(ctx).Create(&event).Error
}

var rateLimitMessages = map[string]string{
	models.ActionComment:     "Rate limit exceeded. Please wait before posting again.",
	models.ActionReaction:    "Rate limit exceeded",
	models.ActionReport:      "Report limit exceeded. Please wait before reporting again.",
	models.ActionCreatorPost: "Post limit exceeded. Please wait before posting again.",
	models.ActionUpload:      "Upload limit exceeded. Please wait before uploading again.",
}

// RateGate applies the configured policy for each action on top of a Limiter.
type RateGate struct {
	limiter  Limiter
	policies func(action string) config.RateLimitPolicy
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func NewRateGate(limiter Limiter, cfg *config.AppConfig, log logrus.FieldLogger, m *metrics.Metrics) *RateGate {
	return &RateGate{limiter: limiter, policies: cfg.Policy, log: log, metrics: m}
}

// Check returns a RateLimitError once the actor has used up the action's quota.
func (g *RateGate) Check(ctx context.Context, actorID, action string) error {
	policy := g.policies(action)
	if g.limiter.WithinLimit(ctx, actorID, action, policy.Limit, policy.Window) {
		return nil
	}

	g.metrics.ObserveRateLimitDenied(action)
	msg, ok := rateLimitMessages[action]
	if !ok {
		msg = "Rate limit exceeded"
	}
	return RateLimitError(msg)
}

// Record logs the action against the actor's quota. The action has already
// happened, so a store failure is logged rather than returned.
func (g *RateGate) Record(ctx context.Context, actorID, action string) {
	if err := g.limiter.RecordEvent(ctx, actorID, action); err != nil {
		g.log.WithFields(logrus.Fields{
			"action":  action,
			"actorID": actorID,
			"error":   err.Error(),
		}).Warn("failed to record rate limit event")
	}
}
