package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// OAuthController drives the browser sign-in with Google and hands the
// issued token back to the client app through a redirect.
type OAuthController struct {
	accountService services.AccountServiceInterface
	google         services.GoogleIdentityProvider
	clientDomain   string
	logger         *zerolog.Logger
}

func NewOAuthController(
	accountService services.AccountServiceInterface,
	google services.GoogleIdentityProvider,
	clientDomain string,
	logger *zerolog.Logger,
) *OAuthController {
	return &OAuthController{
		accountService: accountService,
		google:         google,
		clientDomain:   strings.TrimRight(clientDomain, "/"),
		logger:         logger,
	}
}

// GoogleLogin godoc
// @Summary Start Google sign-in
// @Tags Auth
// @Success 302
// @Failure 503 {object} utils.APIResponse
// @Router /auth/google [get]
func (o *OAuthController) GoogleLogin(c *gin.Context) {
	if !o.google.Enabled() {
		utils.RespondError(c, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/auth/google", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, o.google.AuthCodeURL(state))
}

// GoogleCallback godoc
// @Summary Finish Google sign-in
// @Description Redirects to <client>/login?token= on success and <client>/login?error= otherwise
// @Tags Auth
// @Success 302
// @Router /auth/google/callback [get]
func (o *OAuthController) GoogleCallback(c *gin.Context) {
	if !o.google.Enabled() {
		utils.RespondError(c, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}

	state, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/auth/google", "", c.Request.TLS != nil, true)
	if err != nil || state == "" || c.Query("state") != state {
		o.fail(c, "invalid_state")
		return
	}
	if c.Query("error") != "" {
		o.fail(c, "access_denied")
		return
	}

	profile, err := o.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		o.logger.Warn().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("google code exchange failed")
		o.fail(c, "google_auth_failed")
		return
	}

	auth, err := o.accountService.SocialLogin(c.Request.Context(), request_models.SocialLoginRequest{
		Provider: "google",
		UserData: *profile,
	}, loginMeta(c))
	if err != nil {
		o.logger.Warn().Err(err).Str("trace_id", c.GetString("trace_id")).Msg("google sign-in rejected")
		o.fail(c, "google_auth_failed")
		return
	}

	c.Redirect(http.StatusFound, o.clientDomain+"/login?token="+url.QueryEscape(auth.Token))
}

func (o *OAuthController) fail(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, o.clientDomain+"/login?error="+url.QueryEscape(reason))
}
