package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/config"
	"github.com/warrenmedia/api-go/models"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

// AuthAttemptGuard throttles sign-in attempts per identifier (an email or
// IP). Hitting the limit inside the window locks the identifier out for the
// lockout period, measured from the attempt that hit the limit.
//
// Identifiers are stored as hashes. Store errors fail open.
type AuthAttemptGuard struct {
	db      *gorm.DB
	now     Clock
	policy  config.RateLimitPolicy
	lockout time.Duration
	log     logrus.FieldLogger
}

func NewAuthAttemptGuard(db *gorm.DB, cfg *config.AppConfig, log logrus.FieldLogger) *AuthAttemptGuard {
	return &AuthAttemptGuard{
		db:      db,
		now:     SystemClock,
		policy:  cfg.Policy(models.ActionAuthAttempt),
		lockout: cfg.AuthLockout,
		log:     log,
	}
}

type AuthAttemptInput struct {
	Identifier string `json:"identifier" validate:"required,max=320"`
}

type AuthCheckResult struct {
	WithinLimit       bool   `json:"withinLimit"`
	RetryAfterSeconds int    `json:"retryAfterSeconds"`
	Message           string `json:"message"`
}

func hashIdentifier(identifier string) string {
	sum := blake2b.Sum256([]byte(strings.ToLower(strings.TrimSpace(identifier))))
	return "auth:" + hex.EncodeToString(sum[:])
}

func (g *AuthAttemptGuard) Check(ctx context.Context, in AuthAttemptInput) (*AuthCheckResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := g.now()
	since := now.Add(-(g.policy.Window + g.lockout))

	var attempts []time.Time
	err := g.db.WithContext(ctx).
		Model(&models.RateLimitEvent{}).
		Where("actor_id = ? AND action_type = ? AND created_at >= ?", hashIdentifier(in.Identifier), models.ActionAuthAttempt, since).
		Order("created_at ASC").
		Pluck("created_at", &attempts).Error
	if err != nil {
		g.log.WithField("error", err.Error()).Warn("auth rate limit check failed, allowing attempt")
		return &AuthCheckResult{WithinLimit: true, Message: "Within rate limit"}, nil
	}

	retryAfter := g.retryAfter(attempts, now)
	if retryAfter <= 0 {
		return &AuthCheckResult{WithinLimit: true, Message: "Within rate limit"}, nil
	}

	minutes := int(math.Ceil(retryAfter.Minutes()))
	return &AuthCheckResult{
		WithinLimit:       false,
		RetryAfterSeconds: int(math.Ceil(retryAfter.Seconds())),
		Message:           fmt.Sprintf("Too many attempts. Please try again in %d minutes.", minutes),
	}, nil
}

// retryAfter returns how long the identifier must wait, or zero. attempts
// must be sorted ascending.
func (g *AuthAttemptGuard) retryAfter(attempts []time.Time, now time.Time) time.Duration {
	limit := g.policy.Limit
	var wait time.Duration

	for i := limit - 1; i < len(attempts); i++ {
		if attempts[i].Sub(attempts[i-limit+1]) > g.policy.Window {
			continue
		}
		if d := attempts[i].Add(g.lockout).Sub(now); d > wait {
			wait = d
		}
	}

	windowStart := now.Add(-g.policy.Window)
	var inWindow []time.Time
	for _, t := range attempts {
		if !t.Before(windowStart) {
			inWindow = append(inWindow, t)
		}
	}
	if len(inWindow) >= limit {
		if d := inWindow[len(inWindow)-limit].Add(g.policy.Window).Sub(now); d > wait {
			wait = d
		}
	}

	return wait
}

// Record stores one attempt for the identifier.
func (g *AuthAttemptGuard) Record(ctx context.Context, in AuthAttemptInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	event := models.RateLimitEvent{
		ActorID:    hashIdentifier(in.Identifier),
		ActionType: models.ActionAuthAttempt,
		CreatedAt:  g.now(),
	}
	if err := g.db.WithContext(ctx).Create(&event).Error; err != nil {
		return StoreError("Failed to record attempt", err)
	}
	return nil
}
