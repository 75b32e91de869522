// Package jobs runs background email delivery on Asynq.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"backoffice/internal/config"
	"backoffice/internal/services"
)

// JobService holds the Asynq client used to enqueue and the server that
// runs the handlers.
type JobService struct {
	client *asynq.Client
	server *asynq.Server
	mail   services.IMailService
	logger *zerolog.Logger
}

func NewJobService(cfg *config.Config, mail services.IMailService, logger *zerolog.Logger) *JobService {
	redis := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	}

	server := asynq.NewServer(redis, asynq.Config{
		Concurrency: cfg.Jobs.Concurrency,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	})

	return &JobService{
		client: asynq.NewClient(redis),
		server: server,
		mail:   mail,
		logger: logger,
	}
}

func (j *JobService) EnqueueEmail(ctx context.Context, msg services.EmailMessage) error {
	task, err := NewSendEmailTask(msg)
	if err != nil {
		return fmt.Errorf("build email task: %w", err)
	}
	info, err := j.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	j.logger.Debug().Str("task_id", info.ID).Str("to", msg.To).Msg("email task enqueued")
	return nil
}

func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, j.handleSendEmailTask)
	return mux
}

// Start returns once the worker is running.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")
	return j.server.Start(j.Mux())
}

func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("asynq client close failed")
	}
}

func (j *JobService) handleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var msg services.EmailMessage
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		return fmt.Errorf("unmarshal email payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().Str("type", TaskSendEmail).Str("to", msg.To).Msg("Processing email task")

	if _, err := j.mail.SendMail(ctx, msg); err != nil {
		j.logger.Error().Err(err).Str("type", TaskSendEmail).Str("to", msg.To).Msg("Failed to send email")
		return err
	}
	return nil
}
