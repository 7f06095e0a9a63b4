package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrenmedia/api-go/config"
	"github.com/warrenmedia/api-go/controllers"
	"github.com/warrenmedia/api-go/metrics"
	"github.com/warrenmedia/api-go/middleware"
	"github.com/warrenmedia/api-go/models"
	"github.com/warrenmedia/api-go/services"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testSecret     = "test-secret"
	testServiceKey = "internal-key"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	cfg := &config.AppConfig{
		JWTSecret:      testSecret,
		RateLimits:     map[string]config.RateLimitPolicy{},
		AuthLockout:    30 * time.Minute,
		AuthServiceKey: testServiceKey,
	}
	log, _ := logtest.NewNullLogger()
	m := metrics.New(prometheus.NewRegistry())
	r2Config := &config.R2Config{
		AccountID:       "account",
		AccessKeyID:     "access-key",
		SecretAccessKey: "secret-key",
		BucketName:      "media",
		PublicURL:       "https://cdn.example.com",
		Region:          "auto",
	}

	r := gin.New()
	r.Use(m.Middleware())
	SetupRoutes(r, Dependencies{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Metrics:  m,
		Limiter:  services.NewDBLimiter(db, log, m),
		R2Client: controllers.NewR2Client(r2Config),
		R2Config: r2Config,
	})

	return &testServer{t: t, db: db, router: r}
}

func (s *testServer) token(userID string) string {
	s.t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": userID + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(s.t, err)
	return token
}

func (s *testServer) makeAdmin(userID string) {
	s.t.Helper()
	require.NoError(s.t, s.db.Create(&models.AdminUser{UserID: userID, CreatedAt: time.Now().UTC()}).Error)
}

// do sends body as JSON. userID "" sends no token.
func (s *testServer) do(method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.doWithHeaders(method, path, userID, body, nil)
}

func (s *testServer) doWithHeaders(method, path, userID string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(userID))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decode(t, w)
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return d
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warren_http_requests_total")
}

func TestCommentFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/comments", "", map[string]string{"titleId": "title-1", "content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/comments", "user-1", map[string]string{"titleId": "title-1", "content": "hi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commentID := data(t, w)["comment"].(map[string]interface{})["id"].(string)

	w = s.do(http.MethodPost, "/api/comments", "user-1", map[string]string{"titleId": "title-1", "content": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Duplicate comment detected", decode(t, w)["error"])

	w = s.do(http.MethodPost, "/api/comments/react", "user-2", map[string]string{"commentId": commentID, "reactionType": "love"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/comments?titleId=title-1", "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comments := data(t, w)["comments"].([]interface{})
	require.Len(t, comments, 1)
	first := comments[0].(map[string]interface{})
	assert.Equal(t, float64(1), first["love_count"])
	assert.Equal(t, "love", first["user_reaction"])

	w = s.do(http.MethodPost, "/api/comments/react", "user-2", map[string]string{"commentId": commentID, "reactionType": "love"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "removed", data(t, w)["action"])

	w = s.do(http.MethodDelete, "/api/comments?id="+commentID, "user-2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, "/api/comments?id="+commentID, "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/comments?titleId=title-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, data(t, w)["comments"])
}

func TestCommentRateLimitReturns429(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 5; i++ {
		w := s.do(http.MethodPost, "/api/comments", "user-1", map[string]string{"titleId": "title-1", "content": strings.Repeat("x", i+1)})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(http.MethodPost, "/api/comments", "user-1", map[string]string{"titleId": "title-1", "content": "again"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Rate limit exceeded. Please wait before posting again.", decode(t, w)["error"])
}

func TestModerationFlow(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin("admin-1")

	w := s.do(http.MethodPost, "/api/comments", "author", map[string]string{"titleId": "title-1", "content": "offensive"})
	require.Equal(t, http.StatusCreated, w.Code)
	commentID := data(t, w)["comment"].(map[string]interface{})["id"].(string)

	w = s.do(http.MethodPost, "/api/reports", "reporter", map[string]string{"contentType": "comment", "contentId": commentID, "reason": "offensive"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reportID := data(t, w)["report"].(map[string]interface{})["id"].(string)

	w = s.do(http.MethodPost, "/api/reports", "reporter", map[string]string{"contentType": "comment", "contentId": commentID, "reason": "offensive"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/admin/reports?status=pending", "reporter", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/admin/reports?status=pending", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reports := data(t, w)["reports"].([]interface{})
	require.Len(t, reports, 1)
	details := reports[0].(map[string]interface{})["content_details"].(map[string]interface{})
	assert.Equal(t, "author", details["author_id"])

	w = s.do(http.MethodPost, "/api/admin/reports/"+reportID+"/ban", "admin-1", map[string]interface{}{"reason": "abuse", "durationHours": 24})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	banID := data(t, w)["ban"].(map[string]interface{})["id"].(string)

	w = s.do(http.MethodPost, "/api/admin/reports/"+reportID+"/hide", "admin-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/comments", "author", map[string]string{"titleId": "title-1", "content": "back again"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are banned from posting comments", decode(t, w)["error"])

	w = s.do(http.MethodGet, "/api/admin/bans", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data(t, w)["bans"], 1)

	w = s.do(http.MethodDelete, "/api/admin/bans/"+banID, "admin-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, "/api/admin/bans/"+banID, "admin-1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/admin/reports/missing/dismiss", "admin-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlagEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin("admin-1")

	w := s.do(http.MethodGet, "/api/flags/enable_ads", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"enable_ads","enabled":false}`, w.Body.String())

	w = s.do(http.MethodPut, "/api/admin/flags/enable_ads", "user-1", map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, "/api/admin/flags/enable_ads", "admin-1", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/api/admin/flags/enable_ads", "admin-1", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/flags/enable_ads", "", nil)
	assert.JSONEq(t, `{"name":"enable_ads","enabled":true}`, w.Body.String())

	w = s.do(http.MethodPut, "/api/admin/flags/not_a_flag", "admin-1", map[string]bool{"enabled": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/admin/flags", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data(t, w)["flags"], len(models.DefaultFeatureFlags))
}

func TestCreatorFlow(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin("admin-1")

	w := s.do(http.MethodPost, "/api/creator-posts", "creator-user", map[string]string{"content": "hello"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/creators/apply", "creator-user", map[string]string{"displayName": "Studio"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	creatorID := data(t, w)["creator"].(map[string]interface{})["id"].(string)

	w = s.do(http.MethodPost, "/api/creators/apply", "creator-user", map[string]string{"displayName": "Studio"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/admin/creators?status=pending", "admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data(t, w)["creators"], 1)

	w = s.do(http.MethodPut, "/api/admin/creators/"+creatorID, "admin-1", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/creators/me", "creator-user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "approved", data(t, w)["creator"].(map[string]interface{})["status"])

	w = s.do(http.MethodPut, "/api/admin/flags/enable_creator_posts", "admin-1", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/uploads/image", "creator-user", map[string]interface{}{
		"fileName": "cover.PNG", "contentType": "image/png", "fileSize": 2048,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	upload := data(t, w)
	assert.Contains(t, upload["uploadUrl"], "X-Amz-Signature")
	assert.True(t, strings.HasPrefix(upload["fileUrl"].(string), "https://cdn.example.com/creator-posts/"+creatorID+"/"))
	assert.True(t, strings.HasSuffix(upload["key"].(string), ".png"))

	w = s.do(http.MethodPost, "/api/uploads/image", "creator-user", map[string]interface{}{
		"fileName": "clip.gif", "contentType": "image/gif", "fileSize": 2048,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/creator-posts", "creator-user", map[string]string{"content": "hello", "imageUrl": upload["fileUrl"].(string)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/creator-posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data(t, w)["posts"], 1)
}

func TestVideoUploadWithoutPipeline(t *testing.T) {
	s := newTestServer(t)
	s.makeAdmin("admin-1")

	w := s.do(http.MethodPut, "/api/admin/flags/creator_uploads", "admin-1", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/creators/apply", "creator-user", map[string]string{"displayName": "Studio"})
	require.Equal(t, http.StatusCreated, w.Code)
	creatorID := data(t, w)["creator"].(map[string]interface{})["id"].(string)
	w = s.do(http.MethodPut, "/api/admin/creators/"+creatorID, "admin-1", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/uploads/video", "creator-user", map[string]string{"title": "Pilot"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodGet, "/api/uploads/video/up-1/status", "creator-user", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthRateLimitEndpoints(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"identifier": "someone@example.com"}

	w := s.do(http.MethodPost, "/api/auth/rate-limit", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 5; i++ {
		w = s.do(http.MethodPost, "/api/auth/rate-limit", "", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["withinLimit"])

		w = s.doWithHeaders(http.MethodPost, "/api/auth/attempts", "", body, map[string]string{middleware.ServiceKeyHeader: testServiceKey})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = s.do(http.MethodPost, "/api/auth/rate-limit", "", body)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	assert.Equal(t, false, result["withinLimit"])
	assert.Greater(t, result["retryAfterSeconds"].(float64), float64(0))
}

func TestRecordingAuthAttemptsNeedsServiceKey(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"identifier": "victim@example.com"}

	for i := 0; i < 5; i++ {
		w := s.do(http.MethodPost, "/api/auth/attempts", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(http.MethodPost, "/api/auth/attempts", "someone-else", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.doWithHeaders(http.MethodPost, "/api/auth/attempts", "", body, map[string]string{middleware.ServiceKeyHeader: "guess"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	var count int64
	require.NoError(t, s.db.Model(&models.RateLimitEvent{}).Count(&count).Error)
	assert.Zero(t, count)

	w := s.do(http.MethodPost, "/api/auth/rate-limit", "", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["withinLimit"])
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPut, "/api/profile", "user-1", map[string]string{"displayName": "Alice"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/profile", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := data(t, w)
	assert.Equal(t, "Alice", d["profile"].(map[string]interface{})["display_name"])
	assert.Equal(t, "user-1@example.com", d["email"])

	w = s.do(http.MethodPut, "/api/profile", "user-1", map[string]string{"displayName": strings.Repeat("a", 51)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "displayName too long (max 50 characters)", decode(t, w)["error"])
}
