package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warrenmedia/api-go/metrics"
	"github.com/warrenmedia/api-go/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type flagEntry struct {
	enabled bool
	expires time.Time
}

// FlagGate answers whether a feature is enabled.
//
// Lookups fail closed: a missing row or a store error means disabled. Values
// are cached per name for ttl; Set invalidates the local entry at once,
// while other processes may serve the old value for up to one ttl.
type FlagGate struct {
	db      *gorm.DB
	ttl     time.Duration
	now     Clock
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries map[string]flagEntry
	group   singleflight.Group
}

func NewFlagGate(db *gorm.DB, ttl time.Duration, log logrus.FieldLogger, m *metrics.Metrics) *FlagGate {
	return &FlagGate{
		db:      db,
		ttl:     ttl,
		now:     SystemClock,
		log:     log,
		metrics: m,
		entries: make(map[string]flagEntry),
	}
}

func (g *FlagGate) IsEnabled(ctx context.Context, name string) bool {
	if enabled, ok := g.cached(name); ok {
		g.metrics.ObserveFlagLookup("hit")
		return enabled
	}

	v, err, _ := g.group.Do(name, func() (interface{}, error) {
		return g.load(ctx, name)
	})
	if err != nil {
		g.metrics.ObserveFlagLookup("error")
		g.log.WithFields(logrus.Fields{
			"flag":  name,
			"error": err.Error(),
		}).Warn("feature flag lookup failed, treating as disabled")
		return false
	}

	g.metrics.ObserveFlagLookup("miss")
	return v.(bool)
}

func (g *FlagGate) cached(name string) (bool, bool) {
	if g.ttl <= 0 {
		return false, false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[name]
	if !ok || !g.now().Before(entry.expires) {
		return false, false
	}
	return entry.enabled, true
}

func (g *FlagGate) load(ctx context.Context, name string) (bool, error) {
	var flag models.FeatureFlag
	err := g.db.WithContext(ctx).First(&flag, "name = ?", name).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		flag.Enabled = false
	case err != nil:
		return false, err
	}

	if g.ttl > 0 {
		g.mu.Lock()
		g.entries[name] = flagEntry{enabled: flag.Enabled, expires: g.now().Add(g.ttl)}
		g.mu.Unlock()
	}
	return flag.Enabled, nil
}

// Invalidate drops the cached value for name.
func (g *FlagGate) Invalidate(name string) {
	g.mu.Lock()
	delete(g.entries, name)
	g.mu.Unlock()
}

func (g *FlagGate) List(ctx context.Context) ([]models.FeatureFlag, error) {
	flags := []models.FeatureFlag{}
	if err := g.db.WithContext(ctx).Order("name").Find(&flags).Error; err != nil {
		return nil, StoreError("Failed to load feature flags", err)
	}
	return flags, nil
}

// Set updates an existing flag. Unknown names are NotFound; flags are
// created by seeding, not by admins.
func (g *FlagGate) Set(ctx context.Context, name string, enabled bool) (*models.FeatureFlag, error) {
	res := g.db.WithContext(ctx).
		Model(&models.FeatureFlag{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"enabled":    enabled,
			"updated_at": g.now(),
		})
	if res.Error != nil {
		return nil, StoreError("Failed to update feature flag", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, NotFoundError("Feature flag not found")
	}

	g.Invalidate(name)

	var flag models.FeatureFlag
	if err := g.db.WithContext(ctx).First(&flag, "name = ?", name).Error; err != nil {
		return nil, StoreError("Failed to load feature flag", err)
	}
	return &flag, nil
}
