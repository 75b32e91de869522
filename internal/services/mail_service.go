package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"backoffice/internal/models/db_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

// EmailMessage is a rendered email ready to send. It is also the payload of
// the email:send job.
type EmailMessage struct {
	To           string     `json:"to"`
	Subject      string     `json:"subject"`
	Content      string     `json:"content"`
	TemplateName string     `json:"templateName,omitempty"`
	UserID       *uuid.UUID `json:"userId,omitempty"`
}

// MailSender delivers one HTML email and returns the provider message id.
type MailSender interface {
	Send(ctx context.Context, from, to, subject, html string) (string, error)
}

type resendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string) MailSender {
	return &resendSender{client: resend.NewClient(apiKey)}
}

func (r *resendSender) Send(ctx context.Context, from, to, subject, html string) (string, error) {
	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

// logSender is used when no Resend key is configured.
type logSender struct {
	logger *zerolog.Logger
}

func NewLogSender(logger *zerolog.Logger) MailSender {
	return &logSender{logger: logger}
}

func (l *logSender) Send(_ context.Context, from, to, subject, _ string) (string, error) {
	l.logger.Info().Str("from", from).Str("to", to).Str("subject", subject).Msg("email delivery disabled, message logged")
	return "", nil
}

// RenderPlaceholders replaces every {{key}} in s with data[key].
func RenderPlaceholders(s string, data map[string]string) string {
	if len(data) == 0 {
		return s
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

type IMailService interface {
	// SendMail delivers msg and records an EmailLog whatever the outcome.
	SendMail(ctx context.Context, msg EmailMessage) (*db_models.EmailLog, error)
	// RenderTemplate loads a stored template and fills its placeholders.
	RenderTemplate(ctx context.Context, templateName, to string, userID *uuid.UUID, data map[string]string) (EmailMessage, error)
}

type mailService struct {
	from      string
	sender    MailSender
	templates repositories.EmailTemplateRepository
	logs      repositories.EmailLogRepository
	metrics   *observability.Metrics
	logger    *zerolog.Logger
}

func NewMailService(
	from string,
	sender MailSender,
	templates repositories.EmailTemplateRepository,
	logs repositories.EmailLogRepository,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) IMailService {
	return &mailService{
		from:      from,
		sender:    sender,
		templates: templates,
		logs:      logs,
		metrics:   metrics,
		logger:    logger,
	}
}

func (m *mailService) RenderTemplate(ctx context.Context, templateName, to string, userID *uuid.UUID, data map[string]string) (EmailMessage, error) {
	tpl, err := m.templates.FindByName(ctx, templateName)
	if err != nil {
		return EmailMessage{}, dbError(err)
	}
	if tpl == nil {
		return EmailMessage{}, fmt.Errorf("%w: %s", utils.ErrTemplateNotFound, templateName)
	}
	return EmailMessage{
		To:           to,
		Subject:      RenderPlaceholders(tpl.Subject, data),
		Content:      RenderPlaceholders(tpl.Content, data),
		TemplateName: tpl.Name,
		UserID:       userID,
	}, nil
}

func (m *mailService) SendMail(ctx context.Context, msg EmailMessage) (*db_models.EmailLog, error) {
	entry := &db_models.EmailLog{
		UserID:       msg.UserID,
		To:           msg.To,
		Subject:      msg.Subject,
		Content:      msg.Content,
		TemplateName: msg.TemplateName,
		SentAt:       time.Now().Unix(),
	}

	providerID, sendErr := m.sender.Send(ctx, m.from, msg.To, msg.Subject, msg.Content)
	if sendErr != nil {
		entry.Status = db_models.EmailStatusFailed
		entry.ErrorMessage = sendErr.Error()
		m.logger.Error().Err(sendErr).Str("to", msg.To).Str("template", msg.TemplateName).Msg("email delivery failed")
	} else {
		entry.Status = db_models.EmailStatusSent
		entry.ProviderMessageID = providerID
	}
	m.metrics.Email(string(entry.Status))

	if err := m.logs.Create(ctx, entry); err != nil {
		m.logger.Error().Err(err).Str("to", msg.To).Msg("failed to write email log")
		return nil, dbError(err)
	}
	if sendErr != nil {
		return entry, fmt.Errorf("%w: %v", utils.ErrEmailDelivery, sendErr)
	}
	return entry, nil
}
