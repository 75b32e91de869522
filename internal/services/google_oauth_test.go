package services

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"backoffice/pkg/utils"
)

func newGoogleServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"g-123","email":"g@example.com","name":"Grace"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGoogle(srv *httptest.Server) *googleOAuth {
	g := NewGoogleOAuth(GoogleOAuthConfig{
		ClientID:     "client-1",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:36001/auth/google/callback",
	}).(*googleOAuth)
	g.config.Endpoint = oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	g.userInfoURL = srv.URL + "/userinfo"
	return g
}

func TestGoogleOAuthExchange(t *testing.T) {
	g := newTestGoogle(newGoogleServer(t))
	require.True(t, g.Enabled())

	authURL, err := url.Parse(g.AuthCodeURL("state-1"))
	require.NoError(t, err)
	assert.Equal(t, "state-1", authURL.Query().Get("state"))
	assert.Equal(t, "client-1", authURL.Query().Get("client_id"))
	assert.Contains(t, authURL.Query().Get("scope"), "email")

	profile, err := g.Exchange(bg, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "g-123", profile.ID)
	assert.Equal(t, "g@example.com", profile.Email)
	assert.Equal(t, "Grace", profile.Name)

	_, err = g.Exchange(bg, "bad-code")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)

	_, err = g.Exchange(bg, "")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestGoogleOAuthDisabledWithoutClientID(t *testing.T) {
	assert.False(t, NewGoogleOAuth(GoogleOAuthConfig{}).Enabled())
}
