package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type NotificationServiceInterface interface {
	ListNotifications(ctx context.Context, filter repositories.NotificationFilter, page, limit int) (*response_models.Page[db_models.Notification], error)
	Stats(ctx context.Context) (*response_models.NotificationStats, error)
	GetNotification(ctx context.Context, id uuid.UUID) (*db_models.Notification, error)
	CreateNotification(ctx context.Context, req request_models.NotificationRequest, actor Actor) (*db_models.Notification, error)
	BulkCreate(ctx context.Context, req request_models.BulkNotificationRequest, actor Actor) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*db_models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteNotification(ctx context.Context, id uuid.UUID) error
}

type NotificationService struct {
	notifRepo repositories.NotificationRepository
	userRepo  repositories.UserRepository
	audit     AuditServiceInterface
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewNotificationService(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	audit AuditServiceInterface,
	logger *zerolog.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		audit:     audit,
		logger:    logger,
		now:       time.Now,
	}
}

// notificationType defaults an empty type to INFO.
func notificationType(raw string) (db_models.NotificationType, error) {
	if raw == "" {
		return db_models.NotificationInfo, nil
	}
	t := db_models.NotificationType(strings.ToUpper(raw))
	if !t.Valid() {
		return "", utils.ErrInvalidNotification
	}
	return t, nil
}

func (n *NotificationService) ListNotifications(ctx context.Context, filter repositories.NotificationFilter, page, limit int) (*response_models.Page[db_models.Notification], error) {
	rows, total, err := n.notifRepo.List(ctx, filter, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.Page[db_models.Notification]{
		Data:       rows,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (n *NotificationService) Stats(ctx context.Context) (*response_models.NotificationStats, error) {
	total, read, err := n.notifRepo.CountRead(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	byType, err := n.notifRepo.CountByType(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.NotificationStats{
		Total:    total,
		Unread:   total - read,
		Read:     read,
		ReadRate: utils.Percentage(read, total),
		ByType:   toCountItems(byType),
	}, nil
}

func (n *NotificationService) GetNotification(ctx context.Context, id uuid.UUID) (*db_models.Notification, error) {
	row, err := n.notifRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if row == nil {
		return nil, utils.ErrNotificationNotFound
	}
	return row, nil
}

func (n *NotificationService) CreateNotification(ctx context.Context, req request_models.NotificationRequest, actor Actor) (*db_models.Notification, error) {
	kind, err := notificationType(req.Type)
	if err != nil {
		return nil, err
	}
	metadata, err := jsonObject(req.Metadata)
	if err != nil {
		return nil, err
	}
	user, err := n.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	row := &db_models.Notification{
		UserID:   req.UserID,
		Title:    req.Title,
		Message:  req.Message,
		Type:     kind,
		Metadata: metadata,
	}
	if err := n.notifRepo.Create(ctx, row); err != nil {
		return nil, dbError(err)
	}

	entry := actor.entry("NOTIFICATION_CREATE", "NOTIFICATION", row.ID.String(), map[string]interface{}{
		"targetUserId": req.UserID.String(),
		"type":         string(kind),
		"title":        req.Title,
	})
	if err := n.audit.Record(ctx, entry); err != nil {
		n.logger.Error().Err(err).Str("notification_id", row.ID.String()).Msg("notification audit not recorded")
	}
	return row, nil
}

func (n *NotificationService) BulkCreate(ctx context.Context, req request_models.BulkNotificationRequest, actor Actor) (int, error) {
	kind, err := notificationType(req.Type)
	if err != nil {
		return 0, err
	}
	users, err := n.userRepo.FindByIDs(ctx, uniqueIDs(req.UserIDs))
	if err != nil {
		return 0, dbError(err)
	}
	if len(users) == 0 {
		return 0, nil
	}

	rows := make([]db_models.Notification, 0, len(users))
	for _, u := range users {
		rows = append(rows, db_models.Notification{
			UserID:  u.ID,
			Title:   req.Title,
			Message: req.Message,
			Type:    kind,
		})
	}
	if err := n.notifRepo.CreateBatch(ctx, rows); err != nil {
		return 0, dbError(err)
	}

	entry := actor.entry("NOTIFICATION_BULK_CREATE", "NOTIFICATION", "", map[string]interface{}{
		"recipientCount": len(rows),
		"type":           string(kind),
		"title":          req.Title,
	})
	if err := n.audit.Record(ctx, entry); err != nil {
		n.logger.Error().Err(err).Int("recipients", len(rows)).Msg("bulk notification audit not recorded")
	}
	return len(rows), nil
}

func (n *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*db_models.Notification, error) {
	if _, err := n.GetNotification(ctx, id); err != nil {
		return nil, err
	}
	if err := n.notifRepo.MarkRead(ctx, id, n.now().Unix()); err != nil {
		return nil, dbError(err)
	}
	return n.GetNotification(ctx, id)
}

func (n *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	updated, err := n.notifRepo.MarkAllRead(ctx, userID, n.now().Unix())
	if err != nil {
		return 0, dbError(err)
	}
	return updated, nil
}

func (n *NotificationService) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	if _, err := n.GetNotification(ctx, id); err != nil {
		return err
	}
	if err := n.notifRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	return nil
}
