package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/api/controllers"
	"backoffice/internal/config"
	"backoffice/internal/infra"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/internal/testutil"
	"backoffice/pkg/utils"
)

type routeEnv struct {
	router *gin.Engine
	admin  string
	member string
}

// newRouteEnv wires the real auth, permission and waiting list stack. Controllers
// left nil are only reached when a request passes its permission gate.
func newRouteEnv(t *testing.T) *routeEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := t.Context()
	db := testutil.NewDB(t)
	logger := zerolog.Nop()
	cfg := &config.Config{Admin: config.AdminConfig{Email: "root@example.com", Password: "root-pass"}}
	require.NoError(t, infra.Seed(ctx, db, cfg, &logger))

	accounts := services.NewAccountService(
		repositories.NewUserRepository(db),
		repositories.NewRoleRepository(db),
		utils.NewJWTManager("route-test-secret", time.Hour),
		nil,
		nil,
		"https://app.example.com",
		&logger,
	)

	r := gin.New()
	RegisterRoutes(r, RouterParams{
		Config:      cfg,
		Logger:      &logger,
		Accounts:    accounts,
		Permissions: services.NewPermissionService(repositories.NewPermissionRepository(db)),
		Audit:       services.NewAuditService(repositories.NewAuditLogRepository(db)),
		Setting: controllers.NewSettingController(
			services.NewSettingService(repositories.NewSettingRepository(db), &logger),
			services.NewWaitingListService(repositories.NewWaitingListRepository(db), nil),
		),
	})

	admin, err := accounts.Login(ctx, request_models.LoginRequest{Email: "root@example.com", Password: "root-pass"}, request_models.LoginMeta{})
	require.NoError(t, err)
	member, err := accounts.Register(ctx, request_models.RegisterRequest{Name: "Mia", Email: "mia@example.com", Password: "secret1"})
	require.NoError(t, err)

	return &routeEnv{router: r, admin: admin.Token, member: member.Token}
}

func (e *routeEnv) call(method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w.Code
}

func TestWaitingListRequiresUserPermissions(t *testing.T) {
	env := newRouteEnv(t)
	entry := "/waiting-list/" + uuid.NewString()

	assert.Equal(t, http.StatusUnauthorized, env.call(http.MethodGet, "/waiting-list", ""))

	assert.Equal(t, http.StatusForbidden, env.call(http.MethodGet, "/waiting-list", env.member))
	assert.Equal(t, http.StatusForbidden, env.call(http.MethodGet, "/waiting-list/stats", env.member))
	assert.Equal(t, http.StatusForbidden, env.call(http.MethodDelete, entry, env.member))

	assert.Equal(t, http.StatusOK, env.call(http.MethodGet, "/waiting-list", env.admin))
	assert.Equal(t, http.StatusOK, env.call(http.MethodGet, "/waiting-list/stats", env.admin))
	assert.Equal(t, http.StatusNotFound, env.call(http.MethodDelete, entry, env.admin))
}

func TestStatusAndReadRoutesUseOriginalVerbs(t *testing.T) {
	env := newRouteEnv(t)
	id := uuid.NewString()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPatch, "/users/" + id + "/status"},
		{http.MethodPatch, "/users/" + id + "/suspend"},
		{http.MethodPatch, "/users/" + id + "/ban"},
		{http.MethodPatch, "/users/" + id + "/activate"},
		{http.MethodPost, "/users/bulk/status"},
		{http.MethodPatch, "/admin/notifications/" + id + "/read"},
		{http.MethodPatch, "/admin/notifications/user/" + id + "/read-all"},
		{http.MethodGet, "/admin/push-notifications/" + id},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, env.call(tt.method, tt.path, env.member))
		})
	}

	assert.Equal(t, http.StatusNotFound, env.call(http.MethodPut, "/users/"+id+"/status", env.member))
	assert.Equal(t, http.StatusNotFound, env.call(http.MethodPut, "/admin/notifications/"+id+"/read", env.member))
}
