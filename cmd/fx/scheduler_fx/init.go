package scheduler_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/internal/config"
	"backoffice/internal/scheduler"
	"backoffice/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideScheduler),
	fx.Invoke(runScheduler),
)

func provideScheduler(
	cfg *config.Config,
	subscriptions services.SubscriptionServiceInterface,
	users services.UserServiceInterface,
	logger *zerolog.Logger,
) (*scheduler.Scheduler, error) {
	return scheduler.New(cfg.Scheduler.ExpirySpec, subscriptions, users, logger)
}

func runScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop(ctx)
			return nil
		},
	})
}
