package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/services"
)

type stubGoogle struct {
	enabled bool
	profile *request_models.SocialUserData
	err     error
}

func (s stubGoogle) Enabled() bool { return s.enabled }

func (s stubGoogle) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (s stubGoogle) Exchange(_ context.Context, code string) (*request_models.SocialUserData, error) {
	if s.err != nil {
		return nil, s.err
	}
	if code != "good-code" {
		return nil, errors.New("bad code")
	}
	return s.profile, nil
}

type stubAccounts struct {
	services.AccountServiceInterface
	got *request_models.SocialLoginRequest
}

func (s *stubAccounts) SocialLogin(_ context.Context, req request_models.SocialLoginRequest, _ request_models.LoginMeta) (*response_models.AuthResponse, error) {
	s.got = &req
	return &response_models.AuthResponse{Token: "jwt-1"}, nil
}

func newOAuthRouter(google services.GoogleIdentityProvider, accounts services.AccountServiceInterface) *gin.Engine {
	logger := zerolog.Nop()
	ctrl := NewOAuthController(accounts, google, "https://app.example.com/", &logger)
	r := gin.New()
	r.GET("/auth/google", ctrl.GoogleLogin)
	r.GET("/auth/google/callback", ctrl.GoogleCallback)
	return r
}

func callback(r http.Handler, query string, state *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+query, nil)
	if state != nil {
		req.AddCookie(state)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGoogleLoginFlow(t *testing.T) {
	accounts := &stubAccounts{}
	google := stubGoogle{enabled: true, profile: &request_models.SocialUserData{ID: "g-1", Email: "g@example.com", Name: "Grace"}}
	r := newOAuthRouter(google, accounts)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.Equal(t, http.StatusFound, w.Code)

	var state *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == oauthStateCookie {
			state = c
		}
	}
	require.NotNil(t, state)
	require.NotEmpty(t, state.Value)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, "https://accounts.example.com/auth?state="+state.Value, w.Header().Get("Location"))

	w = callback(r, "code=good-code&state="+state.Value, state)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://app.example.com/login?token=jwt-1", w.Header().Get("Location"))
	require.NotNil(t, accounts.got)
	assert.Equal(t, "google", accounts.got.Provider)
	assert.Equal(t, "g-1", accounts.got.UserData.ID)
	assert.Equal(t, "g@example.com", accounts.got.UserData.Email)
}

func TestGoogleCallbackFailures(t *testing.T) {
	profile := &request_models.SocialUserData{ID: "g-1"}
	state := &http.Cookie{Name: oauthStateCookie, Value: "abc"}

	tests := []struct {
		name     string
		google   stubGoogle
		query    string
		cookie   *http.Cookie
		location string
	}{
		{"missing state cookie", stubGoogle{enabled: true, profile: profile}, "code=good-code&state=abc", nil, "https://app.example.com/login?error=invalid_state"},
		{"state mismatch", stubGoogle{enabled: true, profile: profile}, "code=good-code&state=xyz", state, "https://app.example.com/login?error=invalid_state"},
		{"user denied consent", stubGoogle{enabled: true, profile: profile}, "error=access_denied&state=abc", state, "https://app.example.com/login?error=access_denied"},
		{"code rejected", stubGoogle{enabled: true, profile: profile}, "code=bad-code&state=abc", state, "https://app.example.com/login?error=google_auth_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &stubAccounts{}
			w := callback(newOAuthRouter(tt.google, accounts), tt.query, tt.cookie)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			assert.Nil(t, accounts.got)
		})
	}
}

func TestGoogleLoginDisabled(t *testing.T) {
	r := newOAuthRouter(stubGoogle{}, &stubAccounts{})

	w, env := do(t, r, http.MethodGet, "/auth/google", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "error", env.Status)

	w, _ = do(t, r, http.MethodGet, "/auth/google/callback?code=x", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
