package mail_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/internal/config"
	"backoffice/internal/jobs"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/observability"
)

var Module = fx.Options(
	fx.Provide(
		provideMailSender,
		provideMailService,
		provideJobService,
		provideEmailDispatcher,
		services.NewEmailTemplateService,
		services.NewEmailLogService,
	),
	fx.Invoke(runJobWorker),
)

func provideMailSender(cfg *config.Config, logger *zerolog.Logger) services.MailSender {
	if cfg.Email.ResendAPIKey == "" {
		logger.Warn().Msg("resend api key not set, emails are only logged")
		return services.NewLogSender(logger)
	}
	return services.NewResendSender(cfg.Email.ResendAPIKey)
}

func provideMailService(
	cfg *config.Config,
	sender services.MailSender,
	templates repositories.EmailTemplateRepository,
	logs repositories.EmailLogRepository,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) services.IMailService {
	return services.NewMailService(cfg.Email.From, sender, templates, logs, metrics, logger)
}

// provideJobService returns nil when jobs are disabled.
func provideJobService(cfg *config.Config, mail services.IMailService, logger *zerolog.Logger) *jobs.JobService {
	if !cfg.Jobs.Enabled {
		return nil
	}
	return jobs.NewJobService(cfg, mail, logger)
}

func provideEmailDispatcher(jobService *jobs.JobService, mail services.IMailService, logger *zerolog.Logger) services.IEmailDispatcher {
	var queue services.EmailQueue
	if jobService != nil {
		queue = jobService
	}
	return services.NewEmailDispatcher(queue, mail, logger)
}

func runJobWorker(lc fx.Lifecycle, jobService *jobs.JobService) {
	if jobService == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return jobService.Start()
		},
		OnStop: func(context.Context) error {
			jobService.Stop()
			return nil
		},
	})
}
