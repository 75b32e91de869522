// Package scheduler runs the periodic maintenance sweeps.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const sweepTimeout = time.Minute

// SubscriptionExpirer flips overdue ACTIVE subscriptions to EXPIRED.
type SubscriptionExpirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// SuspensionLifter reactivates users whose suspension has ended.
type SuspensionLifter interface {
	LiftExpiredSuspensions(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron          *cron.Cron
	subscriptions SubscriptionExpirer
	users         SuspensionLifter
	logger        *zerolog.Logger
}

// New registers the sweeps on spec, a robfig cron expression or descriptor
// such as "@every 1h".
func New(spec string, subscriptions SubscriptionExpirer, users SuspensionLifter, logger *zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:          cron.New(),
		subscriptions: subscriptions,
		users:         users,
		logger:        logger,
	}
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Sweep runs both maintenance jobs once.
func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	expired, err := s.subscriptions.ExpireOverdue(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("subscription expiry sweep failed")
	} else if expired > 0 {
		s.logger.Info().Int64("count", expired).Msg("subscriptions expired")
	}

	if _, err := s.users.LiftExpiredSuspensions(ctx); err != nil {
		s.logger.Error().Err(err).Msg("suspension sweep failed")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("entries", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info().Msg("scheduler stopped")
}
