package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"backoffice/internal/models/request_models"
	"backoffice/pkg/utils"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleIdentityProvider runs the authorization code flow against Google.
type GoogleIdentityProvider interface {
	Enabled() bool
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the caller's Google profile.
	Exchange(ctx context.Context, code string) (*request_models.SocialUserData, error)
}

type googleOAuth struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleOAuth(cfg GoogleOAuthConfig) GoogleIdentityProvider {
	return &googleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *googleOAuth) Enabled() bool {
	return g.config.ClientID != ""
}

func (g *googleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (g *googleOAuth) Exchange(ctx context.Context, code string) (*request_models.SocialUserData, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", utils.ErrInvalidInput)
	}
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", utils.ErrInvalidToken, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch google profile: %v", utils.ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: google profile status %d: %s", utils.ErrInvalidToken, resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode google profile: %v", utils.ErrInvalidToken, err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("%w: google profile has no subject", utils.ErrInvalidToken)
	}
	return &request_models.SocialUserData{ID: info.Sub, Email: info.Email, Name: info.Name}, nil
}
