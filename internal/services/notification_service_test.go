package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type recordingPushSender struct {
	batches [][]string
	fail    bool
}

func (r *recordingPushSender) Send(_ context.Context, devices []db_models.UserDevice, _ PushMessage) error {
	ids := make([]string, 0, len(devices))
	for _, d := range devices {
		ids = append(ids, d.DeviceID)
	}
	r.batches = append(r.batches, ids)
	if r.fail {
		return errors.New("provider unavailable")
	}
	return nil
}

func newNotificationService(f *fixture) NotificationServiceInterface {
	return NewNotificationService(repositories.NewNotificationRepository(f.db), repositories.NewUserRepository(f.db), f.audit, f.logger)
}

func TestCreateNotification(t *testing.T) {
	f := newFixture(t)
	svc := newNotificationService(f)
	user := f.user(t, "notify@example.com")
	actor := f.actor(t)

	row, err := svc.CreateNotification(bg, request_models.NotificationRequest{
		UserID:   user.ID,
		Title:    "Welcome",
		Message:  "Thanks for joining",
		Metadata: json.RawMessage(`{"campaign":"onboarding"}`),
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationInfo, row.Type)
	assert.False(t, row.IsRead)
	assert.Equal(t, []string{"NOTIFICATION_CREATE"}, f.auditActions(t, "NOTIFICATION"))

	_, err = svc.CreateNotification(bg, request_models.NotificationRequest{UserID: user.ID, Title: "x", Message: "y", Type: "urgent"}, actor)
	assert.ErrorIs(t, err, utils.ErrInvalidNotification)

	_, err = svc.CreateNotification(bg, request_models.NotificationRequest{UserID: uuid.New(), Title: "x", Message: "y"}, actor)
	assert.ErrorIs(t, err, utils.ErrUserNotFound)

	warn, err := svc.CreateNotification(bg, request_models.NotificationRequest{UserID: user.ID, Title: "x", Message: "y", Type: "warning"}, actor)
	require.NoError(t, err)
	assert.Equal(t, db_models.NotificationWarning, warn.Type)
}

func TestBulkCreateSkipsUnknownUsers(t *testing.T) {
	f := newFixture(t)
	svc := newNotificationService(f)
	a := f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")
	actor := f.actor(t)

	count, err := svc.BulkCreate(bg, request_models.BulkNotificationRequest{
		UserIDs: []uuid.UUID{a.ID, b.ID, a.ID, uuid.New()},
		Title:   "Maintenance",
		Message: "Tonight at 2am",
		Type:    "INFO",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"NOTIFICATION_BULK_CREATE"}, f.auditActions(t, "NOTIFICATION"))

	count, err = svc.BulkCreate(bg, request_models.BulkNotificationRequest{UserIDs: []uuid.UUID{uuid.New()}, Title: "t", Message: "m"}, actor)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Len(t, f.auditActions(t, "NOTIFICATION"), 1)
}

func TestMarkReadAndStats(t *testing.T) {
	f := newFixture(t)
	svc := newNotificationService(f)
	user := f.user(t, "reader@example.com")
	other := f.user(t, "other@example.com")
	actor := f.actor(t)

	var first *db_models.Notification
	for i, kind := range []string{"INFO", "INFO", "SUCCESS", "ERROR"} {
		row, err := svc.CreateNotification(bg, request_models.NotificationRequest{UserID: user.ID, Title: "t", Message: "m", Type: kind}, actor)
		require.NoError(t, err)
		if i == 0 {
			first = row
		}
	}
	_, err := svc.CreateNotification(bg, request_models.NotificationRequest{UserID: other.ID, Title: "t", Message: "m"}, actor)
	require.NoError(t, err)

	read, err := svc.MarkRead(bg, first.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)

	updated, err := svc.MarkAllRead(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	stats, err := svc.Stats(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(4), stats.Read)
	assert.Equal(t, int64(1), stats.Unread)
	assert.InDelta(t, 80.0, stats.ReadRate, 0.001)
	require.NotEmpty(t, stats.ByType)
	assert.Equal(t, "INFO", stats.ByType[0].Key)
	assert.Equal(t, int64(3), stats.ByType[0].Count)

	unread := false
	page, err := svc.ListNotifications(bg, repositories.NotificationFilter{IsRead: &unread}, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, other.ID, page.Data[0].UserID)

	require.NoError(t, svc.DeleteNotification(bg, first.ID))
	_, err = svc.MarkRead(bg, first.ID)
	assert.ErrorIs(t, err, utils.ErrNotificationNotFound)
}

func newPushFixture(t *testing.T) (*fixture, *recordingPushSender, PushServiceInterface, DeviceServiceInterface) {
	f := newFixture(t)
	sender := &recordingPushSender{}
	deviceRepo := repositories.NewDeviceRepository(f.db)
	push := NewPushService(repositories.NewPushNotificationRepository(f.db), deviceRepo, sender, f.audit, nil, f.logger)
	devices := NewDeviceService(deviceRepo, f.audit, f.logger)
	return f, sender, push, devices
}

func TestSendPushSkipsBannedDevices(t *testing.T) {
	f, sender, push, devices := newPushFixture(t)
	user := f.user(t, "push@example.com")
	actor := f.actor(t)

	_, err := devices.Register(bg, user.ID, request_models.RegisterDeviceRequest{DeviceID: "phone", Platform: "ios", PushToken: "t1"})
	require.NoError(t, err)
	tablet, err := devices.Register(bg, user.ID, request_models.RegisterDeviceRequest{DeviceID: "tablet", Platform: "android", PushToken: "t2"})
	require.NoError(t, err)
	_, err = devices.Ban(bg, tablet.ID, "abuse", actor)
	require.NoError(t, err)

	row, err := push.Send(bg, request_models.PushRequest{UserID: user.ID, Title: "Hi", Body: "There", Data: json.RawMessage(`{"deepLink":"/home"}`)}, actor)
	require.NoError(t, err)
	assert.Equal(t, db_models.PushStatusSent, row.Status)
	assert.Equal(t, 1, row.DeviceCount)
	assert.Equal(t, db_models.PlatformAll, row.Platform)
	assert.Equal(t, [][]string{{"phone"}}, sender.batches)
	assert.Equal(t, []string{"PUSH_NOTIFICATION_SEND"}, f.auditActions(t, "PUSH_NOTIFICATION"))

	stored, err := push.GetPush(bg, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi", stored.Title)
	require.NotNil(t, stored.User)
	assert.Equal(t, user.ID, stored.User.ID)
	_, err = push.GetPush(bg, uuid.New())
	assert.ErrorIs(t, err, utils.ErrPushNotificationNotFound)

	_, err = push.Send(bg, request_models.PushRequest{UserID: user.ID, Title: "Hi", Body: "There", Platform: "android"}, actor)
	assert.ErrorIs(t, err, utils.ErrNoDevices)

	_, err = push.Send(bg, request_models.PushRequest{UserID: user.ID, Title: "Hi", Body: "There", Data: json.RawMessage(`"str"`)}, actor)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestSendBulkPush(t *testing.T) {
	f, sender, push, devices := newPushFixture(t)
	withDevice := f.user(t, "with@example.com")
	without := f.user(t, "without@example.com")
	actor := f.actor(t)

	_, err := devices.Register(bg, withDevice.ID, request_models.RegisterDeviceRequest{DeviceID: "d1", Platform: "ios"})
	require.NoError(t, err)

	result, err := push.SendBulk(bg, request_models.BulkPushRequest{
		UserIDs: []uuid.UUID{withDevice.ID, without.ID, withDevice.ID},
		Title:   "Sale",
		Body:    "50% off",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.Failed)
	assert.Len(t, sender.batches, 1)

	sender.fail = true
	result, err = push.SendBulk(bg, request_models.BulkPushRequest{UserIDs: []uuid.UUID{withDevice.ID}, Title: "Sale", Body: "again"}, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	stats, err := push.Stats(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, []string{"PUSH_NOTIFICATION_BULK_SEND", "PUSH_NOTIFICATION_BULK_SEND"}, f.auditActions(t, "PUSH_NOTIFICATION"))
}
