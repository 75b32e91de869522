package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/db_models"
	"backoffice/internal/services"
)

type fakeMail struct {
	sent []services.EmailMessage
	err  error
}

func (m *fakeMail) SendMail(_ context.Context, msg services.EmailMessage) (*db_models.EmailLog, error) {
	m.sent = append(m.sent, msg)
	return &db_models.EmailLog{To: msg.To}, m.err
}

func (m *fakeMail) RenderTemplate(context.Context, string, string, *uuid.UUID, map[string]string) (services.EmailMessage, error) {
	return services.EmailMessage{}, errors.New("not used")
}

func newTestJobService(mail services.IMailService) *JobService {
	logger := zerolog.Nop()
	return &JobService{mail: mail, logger: &logger}
}

func TestNewSendEmailTask(t *testing.T) {
	userID := uuid.New()
	msg := services.EmailMessage{To: "a@example.com", Subject: "Hi", Content: "<p>x</p>", UserID: &userID}

	task, err := NewSendEmailTask(msg)
	require.NoError(t, err)
	assert.Equal(t, TaskSendEmail, task.Type())

	var decoded services.EmailMessage
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, msg, decoded)
}

func TestHandleSendEmailTask(t *testing.T) {
	mail := &fakeMail{}
	j := newTestJobService(mail)

	task, err := NewSendEmailTask(services.EmailMessage{To: "b@example.com", Subject: "Hi"})
	require.NoError(t, err)
	require.NoError(t, j.handleSendEmailTask(context.Background(), task))
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "b@example.com", mail.sent[0].To)

	mail.err = errors.New("provider down")
	err = j.handleSendEmailTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleSendEmailTaskSkipsRetryOnBadPayload(t *testing.T) {
	mail := &fakeMail{}
	j := newTestJobService(mail)

	err := j.handleSendEmailTask(context.Background(), asynq.NewTask(TaskSendEmail, []byte("{not json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, mail.sent)
}
