package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/config"
	"backoffice/internal/infra"
	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/rbac"
	"backoffice/pkg/utils"
)

func seeded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	cfg := &config.Config{Admin: config.AdminConfig{Email: "root@example.com", Password: "root-pass"}}
	require.NoError(t, infra.Seed(bg, f.db, cfg, f.logger))
	return f
}

func permissionID(t *testing.T, f *fixture, name string) uuid.UUID {
	t.Helper()
	var p db_models.Permission
	require.NoError(t, f.db.First(&p, "name = ?", name).Error)
	return p.ID
}

func TestRoleLifecycle(t *testing.T) {
	f := seeded(t)
	svc := NewRoleService(repositories.NewRoleRepository(f.db), repositories.NewPermissionRepository(f.db))
	read, update := permissionID(t, f, rbac.UserRead), permissionID(t, f, rbac.UserUpdate)

	_, err := svc.CreateRole(bg, request_models.RoleRequest{Name: rbac.Admin})
	assert.ErrorIs(t, err, utils.ErrRoleAlreadyExists)
	_, err = svc.CreateRole(bg, request_models.RoleRequest{Name: "SUPPORT", Permissions: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	role, err := svc.CreateRole(bg, request_models.RoleRequest{Name: "SUPPORT", Permissions: []uuid.UUID{read, read}})
	require.NoError(t, err)
	assert.False(t, role.IsDefault)
	assert.Len(t, role.Permissions, 1)

	_, err = svc.UpdateRole(bg, role.ID, request_models.RoleRequest{Name: "SUPPORT", Permissions: []uuid.UUID{read, update}})
	require.NoError(t, err)
	detail, err := svc.GetRole(bg, role.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{read, update}, detail.PermissionIDs)
	assert.Len(t, detail.AllPermissions, len(rbac.Catalog))

	_, err = svc.UpdateRole(bg, role.ID, request_models.RoleRequest{Name: rbac.Member})
	assert.ErrorIs(t, err, utils.ErrRoleAlreadyExists)

	roles, err := svc.ListRoles(bg)
	require.NoError(t, err)
	assert.Len(t, roles, 3)

	var member db_models.Role
	require.NoError(t, f.db.First(&member, "name = ?", rbac.Member).Error)
	assert.ErrorIs(t, svc.DeleteRole(bg, member.ID), utils.ErrCannotDeleteDefault)

	require.NoError(t, svc.DeleteRole(bg, role.ID))
	_, err = svc.GetRole(bg, role.ID)
	assert.ErrorIs(t, err, utils.ErrRoleNotFound)
}

func TestEffectivePermissionsIncludePlanRoles(t *testing.T) {
	f := seeded(t)
	perms := NewPermissionService(repositories.NewPermissionRepository(f.db))
	roles := NewRoleService(repositories.NewRoleRepository(f.db), repositories.NewPermissionRepository(f.db))

	support, err := roles.CreateRole(bg, request_models.RoleRequest{Name: "SUPPORT", Permissions: []uuid.UUID{permissionID(t, f, rbac.UserRead)}})
	require.NoError(t, err)
	analyst, err := roles.CreateRole(bg, request_models.RoleRequest{Name: "ANALYST", Permissions: []uuid.UUID{permissionID(t, f, rbac.AnalyticsRead)}})
	require.NoError(t, err)

	user := f.user(t, "perm@example.com")
	require.NoError(t, f.db.Create(&db_models.UserRole{UserID: user.ID, RoleID: support.ID}).Error)

	plan := f.plan(t, "Insights", "price_insights", "", 30)
	require.NoError(t, f.db.Create(&db_models.PlanRole{PlanID: plan.ID, RoleID: analyst.ID}).Error)

	granted, err := perms.EffectivePermissions(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.UserRead}, granted.Names())

	sub := &db_models.Subscription{UserID: user.ID, PlanID: plan.ID, Status: db_models.SubStatusActive, StartDate: 1, EndDate: 2}
	require.NoError(t, f.db.Create(sub).Error)
	granted, err = perms.EffectivePermissions(bg, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{rbac.AnalyticsRead, rbac.UserRead}, granted.Names())

	require.NoError(t, f.db.Model(sub).Update("status", db_models.SubStatusCanceled).Error)
	granted, err = perms.EffectivePermissions(bg, user.ID)
	require.NoError(t, err)
	assert.False(t, granted.Has(rbac.AnalyticsRead))
}

func TestGeneralSettings(t *testing.T) {
	f := seeded(t)
	svc := NewSettingService(repositories.NewSettingRepository(f.db), f.logger)

	general, err := svc.General(bg)
	require.NoError(t, err)
	assert.Equal(t, "App Starter", general["site_title"])

	updated, err := svc.UpdateGeneral(bg, []request_models.SettingItem{
		{Key: "site_title", Value: json.RawMessage(`"Back Office"`)},
		{Key: "site_description", Value: json.RawMessage(`42`)},
		{Key: "site_icon", Value: json.RawMessage(`null`)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Back Office", updated["site_title"])
	assert.Equal(t, "42", updated["site_description"])
	assert.Equal(t, "/default-icon.png", updated["site_icon"])

	status, err := svc.WaitingPageStatus(bg)
	require.NoError(t, err)
	assert.Equal(t, "inactive", status)
	_, err = svc.SetWaitingPageStatus(bg, "active")
	require.NoError(t, err)
	status, err = svc.WaitingPageStatus(bg)
	require.NoError(t, err)
	assert.Equal(t, "active", status)
}

func TestWaitingList(t *testing.T) {
	f := newFixture(t)
	queue := &fakeQueue{}
	mail := newMailService(f, &fakeMailSender{})
	svc := NewWaitingListService(repositories.NewWaitingListRepository(f.db), NewEmailDispatcher(queue, mail, f.logger))

	first, err := svc.Join(bg, "early@example.com")
	require.NoError(t, err)
	_, err = svc.Join(bg, "early@example.com")
	assert.ErrorIs(t, err, utils.ErrWaitingListExists)
	_, err = svc.Join(bg, "late@example.com")
	require.NoError(t, err)

	old := &db_models.WaitingList{Email: "old@example.com", BaseModel: db_models.BaseModel{CreatedAt: time.Now().AddDate(0, 0, -10).Unix()}}
	require.NoError(t, f.db.Create(old).Error)

	stats, err := svc.Stats(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Last7Days)
	assert.Equal(t, int64(3), stats.Last30Days)

	sent, err := svc.BulkEmail(bg, request_models.WaitingListEmailRequest{Subject: "We're live", Content: "Hi {{email}}"})
	require.NoError(t, err)
	assert.Equal(t, 3, sent)
	require.Len(t, queue.queued, 3)

	require.NoError(t, svc.Remove(bg, first.ID))
	assert.ErrorIs(t, svc.Remove(bg, first.ID), utils.ErrWaitingListNotFound)
	entries, err := svc.List(bg)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
