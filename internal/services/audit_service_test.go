package services

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/db_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

func TestAuditRecordDefaultsPlatform(t *testing.T) {
	f := newFixture(t)
	actor := f.actor(t)

	require.NoError(t, f.audit.Record(bg, AuditEntry{
		UserID:     actor.UserID,
		Action:     "USER_UPDATE",
		EntityType: "USER",
		EntityID:   "42",
		Metadata:   map[string]interface{}{"field": "name"},
	}))

	page, err := f.audit.ListLogs(bg, repositories.AuditLogFilter{UserID: actor.UserID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Logs, 1)
	got := page.Logs[0]
	assert.Equal(t, db_models.PlatformWeb, got.Platform)
	require.NotNil(t, got.User)
	assert.Equal(t, *actor.UserID, got.User.ID)

	var meta map[string]string
	require.NoError(t, json.Unmarshal(got.Metadata, &meta))
	assert.Equal(t, "name", meta["field"])

	fetched, err := f.audit.GetLog(bg, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "USER_UPDATE", fetched.Action)

	_, err = f.audit.GetLog(bg, uuid.New())
	assert.ErrorIs(t, err, utils.ErrAuditLogNotFound)
}

func TestAuditStats(t *testing.T) {
	f := newFixture(t)

	for _, e := range []AuditEntry{
		{Action: "LOGIN", EntityType: "USER", Platform: "ios"},
		{Action: "LOGIN", EntityType: "USER", Platform: "android"},
		{Action: "LOGIN", EntityType: "USER"},
		{Action: "TRANSACTION_REFUND", EntityType: "TRANSACTION"},
	} {
		require.NoError(t, f.audit.Record(bg, e))
	}
	require.NoError(t, f.db.Create(&db_models.AuditLog{Action: "OLD", EntityType: "USER", Platform: "web", BaseModel: db_models.BaseModel{CreatedAt: 1}}).Error)

	stats, err := f.audit.Stats(bg, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalLogs)
	require.NotEmpty(t, stats.TopActions)
	assert.Equal(t, "LOGIN", stats.TopActions[0].Key)
	assert.Equal(t, int64(3), stats.TopActions[0].Count)
	assert.Len(t, stats.EntityTypes, 2)
	assert.Len(t, stats.PlatformDistribution, 3)
	require.Len(t, stats.DailyTrend, 1)
	assert.Equal(t, int64(4), stats.DailyTrend[0].Count)

	page, err := f.audit.ListLogs(bg, repositories.AuditLogFilter{Action: "LOGIN", Platform: "web"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Logs, 1)
}

func TestDailyTrendIsSorted(t *testing.T) {
	day := int64(86400)
	trend := dailyTrend([]int64{3 * day, day, day + 5, 2 * day})
	require.Len(t, trend, 3)
	assert.Equal(t, int64(2), trend[0].Count)
	assert.True(t, trend[0].Date < trend[1].Date)
	assert.True(t, trend[1].Date < trend[2].Date)
}
