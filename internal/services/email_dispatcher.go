package services

import (
	"context"

	"github.com/rs/zerolog"
)

// EmailQueue enqueues messages for the background worker.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, msg EmailMessage) error
}

type IEmailDispatcher interface {
	// Dispatch queues msg when a worker is configured and sends it inline
	// otherwise.
	Dispatch(ctx context.Context, msg EmailMessage) error
	// DispatchAll dispatches every message and returns how many were accepted.
	DispatchAll(ctx context.Context, msgs []EmailMessage) int
}

type emailDispatcher struct {
	queue  EmailQueue
	mail   IMailService
	logger *zerolog.Logger
}

// NewEmailDispatcher accepts a nil queue for inline delivery.
func NewEmailDispatcher(queue EmailQueue, mail IMailService, logger *zerolog.Logger) IEmailDispatcher {
	return &emailDispatcher{queue: queue, mail: mail, logger: logger}
}

func (d *emailDispatcher) Dispatch(ctx context.Context, msg EmailMessage) error {
	if d.queue != nil {
		return d.queue.EnqueueEmail(ctx, msg)
	}
	_, err := d.mail.SendMail(ctx, msg)
	return err
}

func (d *emailDispatcher) DispatchAll(ctx context.Context, msgs []EmailMessage) int {
	accepted := 0
	for _, msg := range msgs {
		if err := d.Dispatch(ctx, msg); err != nil {
			d.logger.Warn().Err(err).Str("to", msg.To).Msg("email not dispatched")
			continue
		}
		accepted++
	}
	return accepted
}
