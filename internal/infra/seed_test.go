package infra_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/config"
	"backoffice/internal/infra"
	"backoffice/internal/models/db_models"
	"backoffice/internal/testutil"
	"backoffice/pkg/rbac"
	"backoffice/pkg/utils"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	logger := zerolog.Nop()
	cfg := &config.Config{Admin: config.AdminConfig{Email: "admin@example.com", Password: "admin-pass"}}

	require.NoError(t, infra.Seed(context.Background(), db, cfg, &logger))
	require.NoError(t, infra.Seed(context.Background(), db, cfg, &logger))

	var perms, roles, users, settings, templates int64
	db.Model(&db_models.Permission{}).Count(&perms)
	db.Model(&db_models.Role{}).Count(&roles)
	db.Model(&db_models.User{}).Count(&users)
	db.Model(&db_models.Setting{}).Count(&settings)
	db.Model(&db_models.EmailTemplate{}).Count(&templates)

	assert.Equal(t, int64(len(rbac.Catalog)), perms)
	assert.Equal(t, int64(2), roles)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(3), settings)
	assert.Equal(t, int64(1), templates)

	var admin db_models.User
	require.NoError(t, db.Preload("Roles.Role.Permissions.Permission").First(&admin, "email = ?", "admin@example.com").Error)
	require.Len(t, admin.Roles, 1)
	assert.Equal(t, rbac.Admin, admin.Roles[0].Role.Name)
	require.Len(t, admin.Roles[0].Role.Permissions, 1)
	assert.Equal(t, rbac.Admin, admin.Roles[0].Role.Permissions[0].Permission.Name)
	assert.NoError(t, utils.ComparePasswords(admin.PasswordHash, "admin-pass"))

	var member db_models.Role
	require.NoError(t, db.Preload("Permissions.Permission").First(&member, "name = ?", rbac.Member).Error)
	assert.True(t, member.IsDefault)
	require.Len(t, member.Permissions, 1)
	assert.Equal(t, rbac.ProfileRead, member.Permissions[0].Permission.Name)
}

func TestSeedSkipsAdminWhenUsersExist(t *testing.T) {
	db := testutil.NewDB(t)
	logger := zerolog.Nop()
	require.NoError(t, db.Create(&db_models.User{Name: "Existing", Email: "someone@example.com"}).Error)

	cfg := &config.Config{Admin: config.AdminConfig{Email: "admin@example.com", Password: "admin-pass"}}
	require.NoError(t, infra.Seed(context.Background(), db, cfg, &logger))

	var count int64
	db.Model(&db_models.User{}).Where("email = ?", "admin@example.com").Count(&count)
	assert.Zero(t, count)
}
