package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type NotificationFilter struct {
	UserID *uuid.UUID
	Type   string
	IsRead *bool
}

type NotificationRepository interface {
	Create(ctx context.Context, n *db_models.Notification) error
	CreateBatch(ctx context.Context, rows []db_models.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Notification, error)
	List(ctx context.Context, filter NotificationFilter, page Page) ([]db_models.Notification, int64, error)
	CountRead(ctx context.Context) (total int64, read int64, err error)
	CountByType(ctx context.Context) ([]CountRow, error)
	MarkRead(ctx context.Context, id uuid.UUID, now int64) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, now int64) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *db_models.Notification) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error
}

func (r *notificationRepository) CreateBatch(ctx context.Context, rows []db_models.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&rows, 200).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Notification, error) {
	return firstOrNil[db_models.Notification](r.db.WithContext(ctx).Preload("User"), "id = ?", id)
}

func (r *notificationRepository) List(ctx context.Context, f NotificationFilter, page Page) ([]db_models.Notification, int64, error) {
	var (
		rows  []db_models.Notification
		total int64
	)

	q := r.db.WithContext(ctx).Model(&db_models.Notification{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.IsRead != nil {
		q = q.Where("is_read = ?", *f.IsRead)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Preload("User").Order("created_at DESC")).Find(&rows).Error
	return rows, total, err
}

func (r *notificationRepository) CountRead(ctx context.Context) (int64, int64, error) {
	var total, read int64
	if err := r.db.WithContext(ctx).Model(&db_models.Notification{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&db_models.Notification{}).Where("is_read = ?", true).Count(&read).Error; err != nil {
		return 0, 0, err
	}
	return total, read, nil
}

func (r *notificationRepository) CountByType(ctx context.Context) ([]CountRow, error) {
	return countBy(r.db.WithContext(ctx).Model(&db_models.Notification{}), "type")
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, now int64) error {
	return r.db.WithContext(ctx).Model(&db_models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, now int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&db_models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.Notification{}, "id = ?", id).Error
}

type PushNotificationFilter struct {
	UserID   *uuid.UUID
	Status   string
	Platform string
}

type PushNotificationRepository interface {
	Create(ctx context.Context, p *db_models.PushNotification) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.PushNotification, error)
	List(ctx context.Context, filter PushNotificationFilter, page Page) ([]db_models.PushNotification, int64, error)
	CountByStatus(ctx context.Context) (map[db_models.PushStatus]int64, error)
	CountByPlatform(ctx context.Context) ([]CountRow, error)
}

type pushNotificationRepository struct {
	db *gorm.DB
}

func NewPushNotificationRepository(db *gorm.DB) PushNotificationRepository {
	return &pushNotificationRepository{db: db}
}

func (r *pushNotificationRepository) Create(ctx context.Context, p *db_models.PushNotification) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *pushNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.PushNotification, error) {
	return firstOrNil[db_models.PushNotification](r.db.WithContext(ctx).Preload("User"), "id = ?", id)
}

func (r *pushNotificationRepository) List(ctx context.Context, f PushNotificationFilter, page Page) ([]db_models.PushNotification, int64, error) {
	var (
		rows  []db_models.PushNotification
		total int64
	)

	q := r.db.WithContext(ctx).Model(&db_models.PushNotification{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Platform != "" {
		q = q.Where("platform = ?", f.Platform)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Preload("User").Order("sent_at DESC")).Find(&rows).Error
	return rows, total, err
}

func (r *pushNotificationRepository) CountByStatus(ctx context.Context) (map[db_models.PushStatus]int64, error) {
	rows, err := countBy(r.db.WithContext(ctx).Model(&db_models.PushNotification{}), "status")
	if err != nil {
		return nil, err
	}
	out := make(map[db_models.PushStatus]int64, len(rows))
	for _, row := range rows {
		out[db_models.PushStatus(row.Key)] = row.Count
	}
	return out, nil
}

func (r *pushNotificationRepository) CountByPlatform(ctx context.Context) ([]CountRow, error) {
	return countBy(r.db.WithContext(ctx).Model(&db_models.PushNotification{}), "platform")
}
