package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweep struct {
	calls int
	err   error
}

func (c *countingSweep) ExpireOverdue(context.Context) (int64, error) {
	c.calls++
	return 2, c.err
}

func (c *countingSweep) LiftExpiredSuspensions(ctx context.Context) (int64, error) {
	return c.ExpireOverdue(ctx)
}

func TestNewRejectsBadSpec(t *testing.T) {
	logger := zerolog.Nop()
	_, err := New("every tuesday", &countingSweep{}, &countingSweep{}, &logger)
	assert.Error(t, err)
}

func TestSweepRunsBothJobs(t *testing.T) {
	logger := zerolog.Nop()
	subs := &countingSweep{err: errors.New("db down")}
	users := &countingSweep{}
	s, err := New("@every 1h", subs, users, &logger)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s.Sweep()
	assert.Equal(t, 1, subs.calls)
	assert.Equal(t, 1, users.calls, "a failing expiry sweep must not block the suspension sweep")
}

func TestStartStop(t *testing.T) {
	logger := zerolog.Nop()
	s, err := New("@every 1h", &countingSweep{}, &countingSweep{}, &logger)
	require.NoError(t, err)

	s.Start()
	s.Stop(context.Background())
}
