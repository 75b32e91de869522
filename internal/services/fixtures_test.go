package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice/internal/models/db_models"
	"backoffice/internal/repositories"
	"backoffice/internal/testutil"
)

type fixture struct {
	db     *gorm.DB
	logger *zerolog.Logger
	audit  AuditServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	db := testutil.NewDB(t)
	return &fixture{
		db:     db,
		logger: &logger,
		audit:  NewAuditService(repositories.NewAuditLogRepository(db)),
	}
}

func (f *fixture) user(t *testing.T, email string) *db_models.User {
	t.Helper()
	u := &db_models.User{Name: email, Email: email, Status: db_models.UserStatusActive}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) actor(t *testing.T) Actor {
	t.Helper()
	admin := f.user(t, "admin-"+uuid.NewString()[:8]+"@example.com")
	return Actor{UserID: &admin.ID, IPAddress: "10.0.0.1", Platform: db_models.PlatformWeb}
}

func (f *fixture) auditActions(t *testing.T, entityType string) []string {
	t.Helper()
	var actions []string
	require.NoError(t, f.db.Model(&db_models.AuditLog{}).
		Where("entity_type = ?", entityType).
		Order("created_at ASC, rowid ASC").
		Pluck("action", &actions).Error)
	return actions
}

var bg = context.Background()
