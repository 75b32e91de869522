package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

func newDeviceService(f *fixture, now time.Time) *DeviceService {
	svc := NewDeviceService(repositories.NewDeviceRepository(f.db), f.audit, f.logger).(*DeviceService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestRegisterDeviceUpsertsByDeviceID(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newDeviceService(f, now)
	alice := f.user(t, "alice@example.com")
	bob := f.user(t, "bob@example.com")

	first, err := svc.Register(bg, alice.ID, request_models.RegisterDeviceRequest{
		DeviceID:  "dev-1",
		Platform:  "ios",
		PushToken: "tok-1",
	})
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), first.LastActiveAt)

	second, err := svc.Register(bg, bob.ID, request_models.RegisterDeviceRequest{
		DeviceID:   "dev-1",
		DeviceName: "Bob's phone",
		Platform:   "ios",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, bob.ID, second.UserID)
	assert.Equal(t, "tok-1", second.PushToken, "empty token keeps the stored one")

	aliceDevices, err := svc.UserDevices(bg, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceDevices)
	bobDevices, err := svc.UserDevices(bg, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobDevices, 1)
}

func TestBanAndUnbanDevice(t *testing.T) {
	f := newFixture(t)
	svc := newDeviceService(f, time.Now())
	owner := f.user(t, "owner@example.com")
	actor := f.actor(t)

	device, err := svc.Register(bg, owner.ID, request_models.RegisterDeviceRequest{DeviceID: "dev-ban", Platform: "android"})
	require.NoError(t, err)

	banned, err := svc.Ban(bg, device.ID, "", actor)
	require.NoError(t, err)
	require.NotNil(t, banned.Ban)
	assert.Equal(t, defaultBanReason, banned.Ban.Reason)
	assert.Equal(t, actor.UserID, banned.Ban.BannedBy)
	assert.Equal(t, []string{"DEVICE_BAN"}, f.auditActions(t, "DEVICE"))

	_, err = svc.Ban(bg, device.ID, "again", actor)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.Register(bg, owner.ID, request_models.RegisterDeviceRequest{DeviceID: "dev-ban", Platform: "android"})
	assert.ErrorIs(t, err, utils.ErrDeviceBanned)

	unbanned, err := svc.Unban(bg, device.ID, actor)
	require.NoError(t, err)
	assert.Nil(t, unbanned.Ban)
	assert.Equal(t, []string{"DEVICE_BAN", "DEVICE_UNBAN"}, f.auditActions(t, "DEVICE"))

	_, err = svc.Unban(bg, device.ID, actor)
	assert.ErrorIs(t, err, utils.ErrDeviceNotBanned)

	_, err = svc.Register(bg, owner.ID, request_models.RegisterDeviceRequest{DeviceID: "dev-ban", Platform: "android"})
	assert.NoError(t, err)
}

func TestDeviceStatsAndFilters(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	svc := newDeviceService(f, now)
	owner := f.user(t, "stats@example.com")

	for _, r := range []request_models.RegisterDeviceRequest{
		{DeviceID: "a", Platform: "ios"},
		{DeviceID: "b", Platform: "ios"},
		{DeviceID: "c", Platform: "android"},
	} {
		_, err := svc.Register(bg, owner.ID, r)
		require.NoError(t, err)
	}
	stale, err := svc.Register(bg, owner.ID, request_models.RegisterDeviceRequest{DeviceID: "d", Platform: "web"})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(stale).Update("last_active_at", now.AddDate(0, 0, -45).Unix()).Error)

	android, err := svc.deviceRepo.FindByDeviceID(bg, "c")
	require.NoError(t, err)
	_, err = svc.Ban(bg, android.ID, "fraud", f.actor(t))
	require.NoError(t, err)

	stats, err := svc.Stats(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Active30Days)
	assert.Equal(t, int64(1), stats.Banned)
	require.NotEmpty(t, stats.ByPlatform)
	assert.Equal(t, "ios", stats.ByPlatform[0].Key)
	assert.Equal(t, int64(2), stats.ByPlatform[0].Count)

	yes, no := true, false
	bannedPage, err := svc.ListDevices(bg, repositories.DeviceFilter{Banned: &yes}, 1, 10)
	require.NoError(t, err)
	require.Len(t, bannedPage.Data, 1)
	assert.Equal(t, "c", bannedPage.Data[0].DeviceID)

	cleanPage, err := svc.ListDevices(bg, repositories.DeviceFilter{Banned: &no, Platform: "ios"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, cleanPage.Data, 2)
	assert.Equal(t, int64(2), cleanPage.Pagination.Total)
}

func TestDeleteDeviceRemovesBan(t *testing.T) {
	f := newFixture(t)
	svc := newDeviceService(f, time.Now())
	owner := f.user(t, "delete@example.com")

	device, err := svc.Register(bg, owner.ID, request_models.RegisterDeviceRequest{DeviceID: "gone", Platform: "ios"})
	require.NoError(t, err)
	_, err = svc.Ban(bg, device.ID, "spam", f.actor(t))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDevice(bg, device.ID))
	_, err = svc.GetDevice(bg, device.ID)
	assert.ErrorIs(t, err, utils.ErrDeviceNotFound)
	assert.ErrorIs(t, svc.DeleteDevice(bg, device.ID), utils.ErrDeviceNotFound)
}
