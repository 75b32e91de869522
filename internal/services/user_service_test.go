package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

func newUserService(f *fixture, queue *fakeQueue, now time.Time) *UserService {
	mail := newMailService(f, &fakeMailSender{})
	svc := NewUserService(
		repositories.NewUserRepository(f.db),
		repositories.NewRoleRepository(f.db),
		NewPermissionService(repositories.NewPermissionRepository(f.db)),
		NewEmailDispatcher(queue, mail, f.logger),
		f.logger,
	).(*UserService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateUserRejectsDuplicatesAndUnknownRoles(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f, &fakeQueue{}, time.Now())

	user, err := svc.CreateUser(bg, request_models.CreateUserRequest{Name: "Fay", Email: "fay@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusActive, user.Status)
	require.NoError(t, utils.ComparePasswords(user.PasswordHash, "secret1"))

	_, err = svc.CreateUser(bg, request_models.CreateUserRequest{Name: "Fay", Email: "fay@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.CreateUser(bg, request_models.CreateUserRequest{Name: "Gus", Email: "gus@example.com", Password: "secret1", Roles: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.GetUser(bg, uuid.New())
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
}

func TestUserStatusTransitions(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(1_700_000_000, 0)
	svc := newUserService(f, &fakeQueue{}, now)
	user := f.user(t, "status@example.com")

	suspended, err := svc.Suspend(bg, user.ID, request_models.SuspendUserRequest{Reason: "spam"})
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusSuspended, suspended.Status)
	assert.Equal(t, "spam", suspended.StatusReason)
	require.NotNil(t, suspended.SuspendedUntil)
	assert.Equal(t, now.AddDate(0, 0, defaultSuspensionDays).Unix(), *suspended.SuspendedUntil)

	suspended, err = svc.Suspend(bg, user.ID, request_models.SuspendUserRequest{Days: 2})
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 2).Unix(), *suspended.SuspendedUntil)

	banned, err := svc.Ban(bg, user.ID, request_models.BanUserRequest{Reason: "fraud"})
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusBanned, banned.Status)
	assert.Nil(t, banned.SuspendedUntil)

	active, err := svc.Activate(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusActive, active.Status)
	assert.Empty(t, active.StatusReason)

	_, err = svc.UpdateStatus(bg, user.ID, request_models.UpdateStatusRequest{Status: "WEIRD"})
	assert.ErrorIs(t, err, utils.ErrInvalidStatus)

	inactive, err := svc.UpdateStatus(bg, user.ID, request_models.UpdateStatusRequest{Status: "INACTIVE", Reason: "left"})
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusInactive, inactive.Status)

	_, err = svc.Ban(bg, uuid.New(), request_models.BanUserRequest{})
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
}

func TestBulkUpdateStatus(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f, &fakeQueue{}, time.Now())
	a := f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")
	c := f.user(t, "c@example.com")

	_, err := svc.BulkUpdateStatus(bg, request_models.BulkStatusRequest{UserIDs: []uuid.UUID{a.ID}, Status: "GONE"})
	assert.ErrorIs(t, err, utils.ErrInvalidStatus)

	n, err := svc.BulkUpdateStatus(bg, request_models.BulkStatusRequest{UserIDs: []uuid.UUID{a.ID, b.ID, a.ID}, Status: "BANNED", Reason: "ring"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var banned int64
	require.NoError(t, f.db.Model(&db_models.User{}).Where("status = ?", db_models.UserStatusBanned).Count(&banned).Error)
	assert.Equal(t, int64(2), banned)

	untouched, err := svc.GetUser(bg, c.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusActive, untouched.User.Status)
}

func TestBulkEmailRendersPerRecipient(t *testing.T) {
	f := newFixture(t)
	queue := &fakeQueue{}
	svc := newUserService(f, queue, time.Now())
	a := f.user(t, "ann@example.com")
	b := f.user(t, "ben@example.com")

	sent, err := svc.BulkEmail(bg, request_models.BulkEmailRequest{
		UserIDs: []uuid.UUID{a.ID, b.ID, uuid.New()},
		Subject: "News for {{name}}",
		Content: "<p>Sent to {{email}}</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, queue.queued, 2)

	byTo := map[string]EmailMessage{}
	for _, m := range queue.queued {
		byTo[m.To] = m
	}
	assert.Equal(t, "News for ann@example.com", byTo["ann@example.com"].Subject)
	assert.Equal(t, "<p>Sent to ben@example.com</p>", byTo["ben@example.com"].Content)
	require.NotNil(t, byTo["ben@example.com"].UserID)
	assert.Equal(t, b.ID, *byTo["ben@example.com"].UserID)
}

func TestPreferencesMergeOneLevel(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f, &fakeQueue{}, time.Now())
	user := f.user(t, "prefs@example.com")

	prefs, err := svc.GetPreferences(bg, user.ID)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	_, err = svc.UpdatePreferences(bg, user.ID, map[string]interface{}{
		"theme":  "dark",
		"notify": map[string]interface{}{"email": true},
	})
	require.NoError(t, err)
	_, err = svc.UpdatePreferences(bg, user.ID, map[string]interface{}{
		"notify": map[string]interface{}{"push": true},
	})
	require.NoError(t, err)

	prefs, err = svc.GetPreferences(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs["theme"])
	assert.Equal(t, map[string]interface{}{"push": true}, prefs["notify"])
}

func TestDeleteMyAccount(t *testing.T) {
	f := newFixture(t)
	svc := newUserService(f, &fakeQueue{}, time.Now())

	user, err := svc.CreateUser(bg, request_models.CreateUserRequest{Name: "Hal", Email: "hal@example.com", Password: "secret1"})
	require.NoError(t, err)
	plan := f.plan(t, "Pro", "price_pro", "", 10)
	sub := &db_models.Subscription{UserID: user.ID, PlanID: plan.ID, Status: db_models.SubStatusActive, StartDate: 1, EndDate: 2}
	require.NoError(t, f.db.Create(sub).Error)

	assert.ErrorIs(t, svc.DeleteMyAccount(bg, user.ID, request_models.DeleteAccountRequest{}), utils.ErrWrongPassword)
	assert.ErrorIs(t, svc.DeleteMyAccount(bg, user.ID, request_models.DeleteAccountRequest{Password: "nope"}), utils.ErrWrongPassword)
	require.NoError(t, svc.DeleteMyAccount(bg, user.ID, request_models.DeleteAccountRequest{Password: "secret1"}))

	_, err = svc.GetUser(bg, user.ID)
	assert.ErrorIs(t, err, utils.ErrUserNotFound)

	social := f.user(t, "social@example.com")
	assert.NoError(t, svc.DeleteMyAccount(bg, social.ID, request_models.DeleteAccountRequest{}))
}

func TestLiftExpiredSuspensions(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	svc := newUserService(f, &fakeQueue{}, now)
	users := repositories.NewUserRepository(f.db)

	expired := f.user(t, "expired@example.com")
	pending := f.user(t, "pending@example.com")
	forever := f.user(t, "forever@example.com")
	require.NoError(t, users.UpdateFields(bg, expired.ID, statusFields(db_models.UserStatusSuspended, "x", ptr(now.Add(-time.Minute).Unix()))))
	require.NoError(t, users.UpdateFields(bg, pending.ID, statusFields(db_models.UserStatusSuspended, "x", ptr(now.Add(time.Hour).Unix()))))
	require.NoError(t, users.UpdateFields(bg, forever.ID, statusFields(db_models.UserStatusSuspended, "x", nil)))

	n, err := svc.LiftExpiredSuspensions(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := users.FindByID(bg, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusActive, got.Status)
	assert.Nil(t, got.SuspendedUntil)

	got, err = users.FindByID(bg, forever.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.UserStatusSuspended, got.Status)
}

func ptr[T any](v T) *T { return &v }
