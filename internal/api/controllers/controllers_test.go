package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/internal/testutil"
	mem "backoffice/pkg/memcache"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	utils.APIResponse
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func newMobileRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t)
	logger := zerolog.Nop()
	audit := services.NewAuditService(repositories.NewAuditLogRepository(db))
	cache := mem.NewViewCache(16, time.Minute)
	ctrl := NewMobileController(
		services.NewAppVersionService(repositories.NewAppVersionRepository(db), audit, &logger),
		services.NewFeatureFlagService(repositories.NewFeatureFlagRepository(db), cache, audit, nil, &logger),
		services.NewRemoteConfigService(repositories.NewRemoteConfigRepository(db), cache, audit, nil, &logger),
	)

	r := gin.New()
	r.GET("/app-versions/latest/:platform", ctrl.LatestVersion)
	r.GET("/app-versions/check-update", ctrl.CheckUpdate)
	r.GET("/admin/app-versions/:id", ctrl.GetVersion)
	r.POST("/admin/app-versions", ctrl.CreateVersion)
	r.DELETE("/admin/app-versions/:id", ctrl.DeleteVersion)
	return r
}

func TestAppVersionEndpoints(t *testing.T) {
	r := newMobileRouter(t)

	w, env := do(t, r, http.MethodPost, "/admin/app-versions", `{"version":"1.4.0","buildNumber":14,"platform":"ios","minSupportedBuild":10}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", env.Status)

	w, _ = do(t, r, http.MethodPost, "/admin/app-versions", `{"version":"1.4.0","buildNumber":14,"platform":"ios"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/admin/app-versions", `{"version":"1.5.0","platform":"ios"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/app-versions/check-update?platform=ios&currentBuildNumber=9", "")
	require.Equal(t, http.StatusOK, w.Code)
	var check response_models.CheckUpdateResponse
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.True(t, check.UpdateAvailable)
	assert.True(t, check.ForceUpdate)
	assert.Equal(t, "1.4.0", check.LatestVersion)

	w, _ = do(t, r, http.MethodGet, "/app-versions/check-update", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodGet, "/app-versions/latest/android", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", env.Status)

	w, _ = do(t, r, http.MethodGet, "/admin/app-versions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	db := testutil.NewDB(t)
	metrics := observability.NewMetrics()
	ctrl := NewHealthController(db, metrics)
	r := gin.New()
	r.GET("/health", ctrl.Health)
	r.GET("/metrics", ctrl.Metrics)

	w, env := do(t, r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"database":"up"}`, string(env.Data))

	w, _ = do(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	w, _ = do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuditLogListRejectsBadDates(t *testing.T) {
	db := testutil.NewDB(t)
	ctrl := NewAuditLogController(services.NewAuditService(repositories.NewAuditLogRepository(db)))
	r := gin.New()
	r.GET("/admin/audit-logs", ctrl.ListLogs)

	w, env := do(t, r, http.MethodGet, "/admin/audit-logs?startDate=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "startDate")

	w, env = do(t, r, http.MethodGet, "/admin/audit-logs?startDate=2024-01-01&endDate=2024-13-40", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "endDate")

	w, _ = do(t, r, http.MethodGet, "/admin/audit-logs?startDate=2024-01-01&endDate=2024-01-31T23:59:59Z", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRevenueCatWebhookChecksSecretBeforeBody(t *testing.T) {
	db := testutil.NewDB(t)
	logger := zerolog.Nop()
	rc := services.NewRevenueCatService(
		"rc-secret",
		repositories.NewSubscriptionRepository(db),
		repositories.NewPlanRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewTransactionRepository(db),
		repositories.NewNotificationRepository(db),
		nil,
		&logger,
	)
	ctrl := NewPaymentController(nil, rc)
	r := gin.New()
	r.POST("/webhooks/revenuecat", ctrl.RevenueCatWebhook)

	send := func(auth, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/revenuecat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send("Bearer wrong", "{not json"))
	assert.Equal(t, http.StatusUnauthorized, send("", "{not json"))
	assert.Equal(t, http.StatusBadRequest, send("Bearer rc-secret", "{not json"))
}
