package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type EmailLogServiceInterface interface {
	ListLogs(ctx context.Context, filter repositories.EmailLogFilter, page, limit int) (*response_models.Page[db_models.EmailLog], error)
	GetLog(ctx context.Context, id uuid.UUID) (*db_models.EmailLog, error)
	Stats(ctx context.Context) (*response_models.EmailLogStats, error)
	// Resend dispatches the logged message again.
	Resend(ctx context.Context, id uuid.UUID) error
}

type EmailLogService struct {
	logRepo    repositories.EmailLogRepository
	dispatcher IEmailDispatcher
	now        func() time.Time
}

func NewEmailLogService(logRepo repositories.EmailLogRepository, dispatcher IEmailDispatcher) EmailLogServiceInterface {
	return &EmailLogService{logRepo: logRepo, dispatcher: dispatcher, now: time.Now}
}

func (s *EmailLogService) ListLogs(ctx context.Context, filter repositories.EmailLogFilter, page, limit int) (*response_models.Page[db_models.EmailLog], error) {
	logs, total, err := s.logRepo.List(ctx, filter, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.Page[db_models.EmailLog]{
		Data:       logs,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (s *EmailLogService) GetLog(ctx context.Context, id uuid.UUID) (*db_models.EmailLog, error) {
	entry, err := s.logRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if entry == nil {
		return nil, utils.ErrEmailLogNotFound
	}
	return entry, nil
}

func (s *EmailLogService) Stats(ctx context.Context) (*response_models.EmailLogStats, error) {
	all, err := s.logRepo.CountByStatus(ctx, 0)
	if err != nil {
		return nil, dbError(err)
	}
	recent, err := s.logRepo.CountByStatus(ctx, utils.DaysAgo(s.now(), 7))
	if err != nil {
		return nil, dbError(err)
	}

	sent := all[db_models.EmailStatusSent]
	failed := all[db_models.EmailStatusFailed]
	total := sent + failed
	return &response_models.EmailLogStats{
		Total:       total,
		Sent:        sent,
		Failed:      failed,
		SuccessRate: utils.Percentage(sent, total),
		Last7Days:   recent[db_models.EmailStatusSent] + recent[db_models.EmailStatusFailed],
	}, nil
}

func (s *EmailLogService) Resend(ctx context.Context, id uuid.UUID) error {
	entry, err := s.GetLog(ctx, id)
	if err != nil {
		return err
	}
	return s.dispatcher.Dispatch(ctx, EmailMessage{
		To:           entry.To,
		Subject:      entry.Subject,
		Content:      entry.Content,
		TemplateName: entry.TemplateName,
		UserID:       entry.UserID,
	})
}
