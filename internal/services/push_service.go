package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

type PushMessage struct {
	Title string
	Body  string
	Data  json.RawMessage
}

// PushSender delivers one message to a set of devices.
type PushSender interface {
	Send(ctx context.Context, devices []db_models.UserDevice, msg PushMessage) error
}

type logPushSender struct {
	logger *zerolog.Logger
}

// NewLogPushSender returns a sender that only logs each delivery.
func NewLogPushSender(logger *zerolog.Logger) PushSender {
	return &logPushSender{logger: logger}
}

func (l *logPushSender) Send(_ context.Context, devices []db_models.UserDevice, msg PushMessage) error {
	for _, d := range devices {
		l.logger.Info().
			Str("device_id", d.DeviceID).
			Str("platform", d.Platform).
			Bool("has_token", d.PushToken != "").
			Str("title", msg.Title).
			Msg("push notification delivered")
	}
	return nil
}

type PushServiceInterface interface {
	ListPushes(ctx context.Context, filter repositories.PushNotificationFilter, page, limit int) (*response_models.Page[db_models.PushNotification], error)
	Stats(ctx context.Context) (*response_models.PushStats, error)
	GetPush(ctx context.Context, id uuid.UUID) (*db_models.PushNotification, error)
	Send(ctx context.Context, req request_models.PushRequest, actor Actor) (*db_models.PushNotification, error)
	SendBulk(ctx context.Context, req request_models.BulkPushRequest, actor Actor) (*response_models.BulkPushResult, error)
}

type PushService struct {
	pushRepo   repositories.PushNotificationRepository
	deviceRepo repositories.DeviceRepository
	sender     PushSender
	audit      AuditServiceInterface
	metrics    *observability.Metrics
	logger     *zerolog.Logger
	now        func() time.Time
}

func NewPushService(
	pushRepo repositories.PushNotificationRepository,
	deviceRepo repositories.DeviceRepository,
	sender PushSender,
	audit AuditServiceInterface,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) PushServiceInterface {
	return &PushService{
		pushRepo:   pushRepo,
		deviceRepo: deviceRepo,
		sender:     sender,
		audit:      audit,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

func (p *PushService) ListPushes(ctx context.Context, filter repositories.PushNotificationFilter, page, limit int) (*response_models.Page[db_models.PushNotification], error) {
	rows, total, err := p.pushRepo.List(ctx, filter, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.Page[db_models.PushNotification]{
		Data:       rows,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (p *PushService) Stats(ctx context.Context) (*response_models.PushStats, error) {
	counts, err := p.pushRepo.CountByStatus(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	platforms, err := p.pushRepo.CountByPlatform(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	sent, failed := counts[db_models.PushStatusSent], counts[db_models.PushStatusFailed]
	return &response_models.PushStats{
		Total:      sent + failed,
		Sent:       sent,
		Failed:     failed,
		ByPlatform: toCountItems(platforms),
	}, nil
}

func (p *PushService) GetPush(ctx context.Context, id uuid.UUID) (*db_models.PushNotification, error) {
	row, err := p.pushRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if row == nil {
		return nil, utils.ErrPushNotificationNotFound
	}
	return row, nil
}

// deliver sends msg to the user's unbanned devices and records the outcome.
func (p *PushService) deliver(ctx context.Context, userID uuid.UUID, platform string, msg PushMessage, data datatypes.JSON, sentBy *uuid.UUID) (*db_models.PushNotification, error) {
	if platform == "" {
		platform = db_models.PlatformAll
	}
	devices, err := p.deviceRepo.ListByUser(ctx, userID, platform)
	if err != nil {
		return nil, dbError(err)
	}
	targets := devices[:0]
	for _, d := range devices {
		if d.Ban == nil {
			targets = append(targets, d)
		}
	}
	if len(targets) == 0 {
		return nil, utils.ErrNoDevices
	}

	row := &db_models.PushNotification{
		UserID:      userID,
		Title:       msg.Title,
		Body:        msg.Body,
		Data:        data,
		Platform:    platform,
		Status:      db_models.PushStatusSent,
		DeviceCount: len(targets),
		SentAt:      p.now().Unix(),
		SentBy:      sentBy,
	}
	if err := p.sender.Send(ctx, targets, msg); err != nil {
		row.Status = db_models.PushStatusFailed
		row.Error = err.Error()
		p.logger.Error().Err(err).Str("user_id", userID.String()).Msg("push delivery failed")
	}
	p.metrics.Push(string(row.Status))

	if err := p.pushRepo.Create(ctx, row); err != nil {
		return nil, dbError(err)
	}
	return row, nil
}

func (p *PushService) Send(ctx context.Context, req request_models.PushRequest, actor Actor) (*db_models.PushNotification, error) {
	data, err := jsonObject(req.Data)
	if err != nil {
		return nil, err
	}
	row, err := p.deliver(ctx, req.UserID, req.Platform, PushMessage{Title: req.Title, Body: req.Body, Data: req.Data}, data, actor.UserID)
	if err != nil {
		return nil, err
	}

	entry := actor.entry("PUSH_NOTIFICATION_SEND", "PUSH_NOTIFICATION", row.ID.String(), map[string]interface{}{
		"targetUserId": req.UserID.String(),
		"status":       string(row.Status),
		"deviceCount":  row.DeviceCount,
	})
	if err := p.audit.Record(ctx, entry); err != nil {
		p.logger.Error().Err(err).Msg("push audit not recorded")
	}
	return row, nil
}

func (p *PushService) SendBulk(ctx context.Context, req request_models.BulkPushRequest, actor Actor) (*response_models.BulkPushResult, error) {
	data, err := jsonObject(req.Data)
	if err != nil {
		return nil, err
	}
	msg := PushMessage{Title: req.Title, Body: req.Body, Data: req.Data}

	result := &response_models.BulkPushResult{}
	for _, userID := range uniqueIDs(req.UserIDs) {
		row, err := p.deliver(ctx, userID, req.Platform, msg, data, actor.UserID)
		switch {
		case errors.Is(err, utils.ErrNoDevices):
			result.Skipped++
		case err != nil:
			return nil, err
		case row.Status == db_models.PushStatusFailed:
			result.Failed++
		default:
			result.Sent++
		}
	}

	entry := actor.entry("PUSH_NOTIFICATION_BULK_SEND", "PUSH_NOTIFICATION", "", map[string]interface{}{
		"userCount": len(req.UserIDs),
		"sent":      result.Sent,
		"failed":    result.Failed,
		"skipped":   result.Skipped,
	})
	if err := p.audit.Record(ctx, entry); err != nil {
		p.logger.Error().Err(err).Msg("bulk push audit not recorded")
	}
	return result, nil
}
