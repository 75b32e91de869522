package controllers_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/internal/api/controllers"
	"backoffice/internal/config"
	"backoffice/internal/services"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(provideOAuthController),
	fx.Provide(controllers.NewUserController),
	fx.Provide(controllers.NewRoleController),
	fx.Provide(controllers.NewSettingController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewTransactionController),
	fx.Provide(controllers.NewAuditLogController),
	fx.Provide(controllers.NewEmailController),
	fx.Provide(controllers.NewNotificationController),
	fx.Provide(controllers.NewDeviceController),
	fx.Provide(controllers.NewMobileController),
	fx.Provide(controllers.NewHealthController),
)

func provideOAuthController(
	cfg *config.Config,
	accounts services.AccountServiceInterface,
	google services.GoogleIdentityProvider,
	logger *zerolog.Logger,
) *controllers.OAuthController {
	return controllers.NewOAuthController(accounts, google, cfg.Client.Domain, logger)
}
