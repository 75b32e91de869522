package account_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/internal/config"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService,
	provideGoogleOAuth,
	services.NewUserService,
	services.NewRoleService,
	services.NewPermissionService,
	services.NewSettingService,
	services.NewWaitingListService,
)

func provideAccountService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	jwt *utils.JWTManager,
	mail services.IMailService,
	dispatcher services.IEmailDispatcher,
	logger *zerolog.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, roleRepo, jwt, mail, dispatcher, cfg.Client.Domain, logger)
}

func provideGoogleOAuth(cfg *config.Config, logger *zerolog.Logger) services.GoogleIdentityProvider {
	if cfg.Google.ClientID == "" {
		logger.Info().Msg("google client id not set, /auth/google is disabled")
	}
	return services.NewGoogleOAuth(services.GoogleOAuthConfig{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
	})
}
