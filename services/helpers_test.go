package services

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/warrenmedia/api-go/config"
	"github.com/warrenmedia/api-go/metrics"
	"github.com/warrenmedia/api-go/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// closeDB makes every later query on db fail.
func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		FlagCacheTTL:   5 * time.Second,
		RateLimitStore: "db",
		RateLimits:     map[string]config.RateLimitPolicy{},
		AuthLockout:    30 * time.Minute,
	}
}

// testEnv wires every service to one database and one fake clock.
type testEnv struct {
	db      *gorm.DB
	clock   *fakeClock
	cfg     *config.AppConfig
	log     *logrus.Logger
	logs    *logtest.Hook
	metrics *metrics.Metrics

	limiter    *DBLimiter
	rate       *RateGate
	bans       *BanService
	flags      *FlagGate
	creators   *CreatorService
	comments   *CommentService
	reactions  *ReactionService
	reports    *ReportService
	dispatcher *Dispatcher
	posts      *CreatorPostService
	profiles   *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	clock := newFakeClock()
	cfg := testConfig()
	log, hook := logtest.NewNullLogger()
	m := metrics.New(prometheus.NewRegistry())

	env := &testEnv{db: db, clock: clock, cfg: cfg, log: log, logs: hook, metrics: m}

	env.limiter = NewDBLimiter(db, log, m)
	env.limiter.now = clock.Now
	env.rate = NewRateGate(env.limiter, cfg, log, m)

	env.bans = NewBanService(db)
	env.bans.now = clock.Now

	env.flags = NewFlagGate(db, cfg.FlagCacheTTL, log, m)
	env.flags.now = clock.Now

	env.creators = NewCreatorService(db)
	env.creators.now = clock.Now

	env.comments = NewCommentService(db, env.bans, env.rate)
	env.comments.now = clock.Now

	env.reactions = NewReactionService(db, env.bans, env.rate)
	env.reactions.now = clock.Now

	env.reports = NewReportService(db, env.rate)
	env.reports.now = clock.Now

	env.dispatcher = NewDispatcher(db, log, m)
	env.dispatcher.now = clock.Now

	env.posts = NewCreatorPostService(db, env.flags, env.creators, env.bans, env.rate)
	env.posts.now = clock.Now

	env.profiles = NewProfileService(db)
	env.profiles.now = clock.Now

	return env
}

func (e *testEnv) setFlag(t *testing.T, name string, enabled bool) {
	t.Helper()
	_, err := e.flags.Set(t.Context(), name, enabled)
	require.NoError(t, err)
}

func (e *testEnv) approvedCreator(t *testing.T, userID string) *models.Creator {
	t.Helper()
	creator, err := e.creators.Apply(t.Context(), userID, userID+"@example.com", CreatorApplicationInput{DisplayName: "Creator " + userID})
	require.NoError(t, err)
	creator, err = e.creators.Review(t.Context(), creator.ID, ReviewCreatorInput{Status: models.CreatorStatusApproved})
	require.NoError(t, err)
	return creator
}

func (e *testEnv) comment(t *testing.T, userID, titleID, content string) *models.Comment {
	t.Helper()
	c := models.Comment{
		UserID:    userID,
		TitleID:   titleID,
		Content:   content,
		CreatedAt: e.clock.Now(),
		UpdatedAt: e.clock.Now(),
	}
	require.NoError(t, e.db.Create(&c).Error)
	return &c
}

func requireKind(t *testing.T, want ErrorKind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want.String(), KindOf(err).String(), err.Error())
}

func intPtr(v int) *int {
	return &v
}
