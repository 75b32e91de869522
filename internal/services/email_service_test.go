package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type fakeMailSender struct {
	sent []string
	fail map[string]bool
}

func (s *fakeMailSender) Send(_ context.Context, _, to, _, _ string) (string, error) {
	if s.fail[to] {
		return "", errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, to)
	return "msg_" + to, nil
}

type fakeQueue struct {
	queued []EmailMessage
	err    error
}

func (q *fakeQueue) EnqueueEmail(_ context.Context, msg EmailMessage) error {
	if q.err != nil {
		return q.err
	}
	q.queued = append(q.queued, msg)
	return nil
}

func newMailService(f *fixture, sender MailSender) IMailService {
	return NewMailService("no-reply@example.com", sender,
		repositories.NewEmailTemplateRepository(f.db), repositories.NewEmailLogRepository(f.db), nil, f.logger)
}

func TestRenderPlaceholders(t *testing.T) {
	out := RenderPlaceholders("Hi {{name}}, reset at {{link}}. Bye {{name}} {{unknown}}", map[string]string{
		"name": "Ada",
		"link": "https://app.test/reset",
	})
	assert.Equal(t, "Hi Ada, reset at https://app.test/reset. Bye Ada {{unknown}}", out)
	assert.Equal(t, "{{x}}", RenderPlaceholders("{{x}}", nil))
}

func TestSendMailRecordsEveryOutcome(t *testing.T) {
	f := newFixture(t)
	sender := &fakeMailSender{fail: map[string]bool{"bounce@example.com": true}}
	svc := newMailService(f, sender)
	user := f.user(t, "ok@example.com")

	entry, err := svc.SendMail(bg, EmailMessage{To: "ok@example.com", Subject: "Hi", Content: "<p>x</p>", UserID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, db_models.EmailStatusSent, entry.Status)
	assert.Equal(t, "msg_ok@example.com", entry.ProviderMessageID)

	entry, err = svc.SendMail(bg, EmailMessage{To: "bounce@example.com", Subject: "Hi", Content: "x"})
	assert.ErrorIs(t, err, utils.ErrEmailDelivery)
	require.NotNil(t, entry)
	assert.Equal(t, db_models.EmailStatusFailed, entry.Status)
	assert.Equal(t, "mailbox unavailable", entry.ErrorMessage)

	logs := NewEmailLogService(repositories.NewEmailLogRepository(f.db), nil)
	stats, err := logs.Stats(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.InDelta(t, 50.0, stats.SuccessRate, 0.001)
	assert.Equal(t, int64(2), stats.Last7Days)
}

func TestRenderTemplate(t *testing.T) {
	f := newFixture(t)
	svc := newMailService(f, &fakeMailSender{})
	templates := NewEmailTemplateService(repositories.NewEmailTemplateRepository(f.db))

	_, err := templates.CreateTemplate(bg, request_models.EmailTemplateRequest{Name: "WELCOME", Subject: "Welcome {{name}}", Content: "<h1>Hello {{name}}</h1>"})
	require.NoError(t, err)
	_, err = templates.CreateTemplate(bg, request_models.EmailTemplateRequest{Name: "WELCOME", Subject: "dup", Content: "dup"})
	assert.ErrorIs(t, err, utils.ErrTemplateExists)

	msg, err := svc.RenderTemplate(bg, "WELCOME", "ada@example.com", nil, map[string]string{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome Ada", msg.Subject)
	assert.Equal(t, "<h1>Hello Ada</h1>", msg.Content)
	assert.Equal(t, "WELCOME", msg.TemplateName)

	_, err = svc.RenderTemplate(bg, "MISSING", "ada@example.com", nil, nil)
	assert.ErrorIs(t, err, utils.ErrTemplateNotFound)
}

func TestDispatcherQueuesWhenWorkerConfigured(t *testing.T) {
	f := newFixture(t)
	sender := &fakeMailSender{}
	mail := newMailService(f, sender)
	queue := &fakeQueue{}

	queued := NewEmailDispatcher(queue, mail, f.logger)
	require.NoError(t, queued.Dispatch(bg, EmailMessage{To: "a@example.com"}))
	assert.Len(t, queue.queued, 1)
	assert.Empty(t, sender.sent)

	inline := NewEmailDispatcher(nil, mail, f.logger)
	require.NoError(t, inline.Dispatch(bg, EmailMessage{To: "b@example.com"}))
	assert.Equal(t, []string{"b@example.com"}, sender.sent)

	queue.err = errors.New("redis down")
	assert.Zero(t, queued.DispatchAll(bg, []EmailMessage{{To: "c@example.com"}, {To: "d@example.com"}}))
	queue.err = nil
	assert.Equal(t, 2, queued.DispatchAll(bg, []EmailMessage{{To: "c@example.com"}, {To: "d@example.com"}}))
}

func TestResendEmailLog(t *testing.T) {
	f := newFixture(t)
	sender := &fakeMailSender{fail: map[string]bool{"flaky@example.com": true}}
	mail := newMailService(f, sender)
	queue := &fakeQueue{}
	logs := NewEmailLogService(repositories.NewEmailLogRepository(f.db), NewEmailDispatcher(queue, mail, f.logger))

	failed, err := mail.SendMail(bg, EmailMessage{To: "flaky@example.com", Subject: "Receipt", Content: "<p>paid</p>", TemplateName: "RECEIPT"})
	require.Error(t, err)

	require.NoError(t, logs.Resend(bg, failed.ID))
	require.Len(t, queue.queued, 1)
	assert.Equal(t, EmailMessage{To: "flaky@example.com", Subject: "Receipt", Content: "<p>paid</p>", TemplateName: "RECEIPT"}, queue.queued[0])

	assert.ErrorIs(t, logs.Resend(bg, uuid.New()), utils.ErrEmailLogNotFound)

	page, err := logs.ListLogs(bg, repositories.EmailLogFilter{Status: string(db_models.EmailStatusFailed)}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}
