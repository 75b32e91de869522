package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type WaitingListServiceInterface interface {
	Join(ctx context.Context, email string) (*db_models.WaitingList, error)
	List(ctx context.Context) ([]db_models.WaitingList, error)
	Stats(ctx context.Context) (*response_models.WaitingListStats, error)
	BulkEmail(ctx context.Context, req request_models.WaitingListEmailRequest) (int, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type WaitingListService struct {
	waitingRepo repositories.WaitingListRepository
	dispatcher  IEmailDispatcher
	now         func() time.Time
}

func NewWaitingListService(waitingRepo repositories.WaitingListRepository, dispatcher IEmailDispatcher) WaitingListServiceInterface {
	return &WaitingListService{waitingRepo: waitingRepo, dispatcher: dispatcher, now: time.Now}
}

func (w *WaitingListService) Join(ctx context.Context, email string) (*db_models.WaitingList, error) {
	entry := &db_models.WaitingList{Email: email}
	if err := w.waitingRepo.Create(ctx, entry); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrWaitingListExists
		}
		return nil, dbError(err)
	}
	return entry, nil
}

func (w *WaitingListService) List(ctx context.Context) ([]db_models.WaitingList, error) {
	entries, err := w.waitingRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return entries, nil
}

func (w *WaitingListService) Stats(ctx context.Context) (*response_models.WaitingListStats, error) {
	now := w.now()
	total, err := w.waitingRepo.Count(ctx, 0)
	if err != nil {
		return nil, dbError(err)
	}
	week, err := w.waitingRepo.Count(ctx, utils.DaysAgo(now, 7))
	if err != nil {
		return nil, dbError(err)
	}
	month, err := w.waitingRepo.Count(ctx, utils.DaysAgo(now, 30))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.WaitingListStats{Total: total, Last7Days: week, Last30Days: month}, nil
}

func (w *WaitingListService) BulkEmail(ctx context.Context, req request_models.WaitingListEmailRequest) (int, error) {
	entries, err := w.waitingRepo.List(ctx)
	if err != nil {
		return 0, dbError(err)
	}
	msgs := make([]EmailMessage, 0, len(entries))
	for _, e := range entries {
		data := map[string]string{"email": e.Email}
		msgs = append(msgs, EmailMessage{
			To:      e.Email,
			Subject: RenderPlaceholders(req.Subject, data),
			Content: RenderPlaceholders(req.Content, data),
		})
	}
	return w.dispatcher.DispatchAll(ctx, msgs), nil
}

func (w *WaitingListService) Remove(ctx context.Context, id uuid.UUID) error {
	deleted, err := w.waitingRepo.Delete(ctx, id)
	if err != nil {
		return dbError(err)
	}
	if !deleted {
		return utils.ErrWaitingListNotFound
	}
	return nil
}
