package payment_service_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/internal/config"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/observability"
)

var Module = fx.Provide(
	provideStripeGateway,
	services.NewPaymentService,
	provideRevenueCatService,
	services.NewPlanService,
	services.NewSubscriptionService,
	services.NewTransactionService,
)

func provideStripeGateway(cfg *config.Config, logger *zerolog.Logger) services.StripeGateway {
	if cfg.Stripe.SecretKey == "" {
		logger.Warn().Msg("stripe secret key not set, checkout calls will fail")
	}
	return services.NewStripeGateway(services.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	})
}

func provideRevenueCatService(
	cfg *config.Config,
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.IPlanRepository,
	userRepo repositories.UserRepository,
	txnRepo repositories.TransactionRepository,
	notifRepo repositories.NotificationRepository,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) services.RevenueCatServiceInterface {
	return services.NewRevenueCatService(cfg.RevenueCat.WebhookSecret, subRepo, planRepo, userRepo, txnRepo, notifRepo, metrics, logger)
}
