package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type DeviceFilter struct {
	Platform string
	UserID   *uuid.UUID
	Banned   *bool
}

type DeviceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.UserDevice, error)
	FindByDeviceID(ctx context.Context, deviceID string) (*db_models.UserDevice, error)
	ListByUser(ctx context.Context, userID uuid.UUID, platform string) ([]db_models.UserDevice, error)
	List(ctx context.Context, filter DeviceFilter, page Page) ([]db_models.UserDevice, int64, error)
	Create(ctx context.Context, device *db_models.UserDevice) error
	Save(ctx context.Context, device *db_models.UserDevice) error
	Delete(ctx context.Context, id uuid.UUID) error
	Ban(ctx context.Context, ban *db_models.DeviceBan) error
	Unban(ctx context.Context, deviceID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since int64) (int64, error)
	CountBanned(ctx context.Context) (int64, error)
	CountByPlatform(ctx context.Context) ([]CountRow, error)
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.UserDevice, error) {
	return firstOrNil[db_models.UserDevice](r.db.WithContext(ctx).Preload("Ban").Preload("User"), "id = ?", id)
}

func (r *deviceRepository) FindByDeviceID(ctx context.Context, deviceID string) (*db_models.UserDevice, error) {
	return firstOrNil[db_models.UserDevice](r.db.WithContext(ctx).Preload("Ban"), "device_id = ?", deviceID)
}

// ListByUser returns the user's devices, restricted to platform unless it is
// empty or "all".
func (r *deviceRepository) ListByUser(ctx context.Context, userID uuid.UUID, platform string) ([]db_models.UserDevice, error) {
	var rows []db_models.UserDevice
	q := r.db.WithContext(ctx).Preload("Ban").Where("user_id = ?", userID)
	if platform != "" && platform != db_models.PlatformAll {
		q = q.Where("platform = ?", platform)
	}
	err := q.Order("last_active_at DESC").Find(&rows).Error
	return rows, err
}

func (r *deviceRepository) List(ctx context.Context, f DeviceFilter, page Page) ([]db_models.UserDevice, int64, error) {
	var (
		rows  []db_models.UserDevice
		total int64
	)

	q := r.db.WithContext(ctx).Model(&db_models.UserDevice{})
	if f.Platform != "" {
		q = q.Where("platform = ?", f.Platform)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Banned != nil {
		banned := r.db.WithContext(ctx).Model(&db_models.DeviceBan{}).Select("user_device_id")
		if *f.Banned {
			q = q.Where("id IN (?)", banned)
		} else {
			q = q.Where("id NOT IN (?)", banned)
		}
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Preload("Ban").Preload("User").Order("last_active_at DESC")).Find(&rows).Error
	return rows, total, err
}

func (r *deviceRepository) Create(ctx context.Context, device *db_models.UserDevice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(device).Error
}

func (r *deviceRepository) Save(ctx context.Context, device *db_models.UserDevice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(device).Error
}

func (r *deviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_device_id = ?", id).Delete(&db_models.DeviceBan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db_models.UserDevice{}, "id = ?", id).Error
	})
}

func (r *deviceRepository) Ban(ctx context.Context, ban *db_models.DeviceBan) error {
	return r.db.WithContext(ctx).Create(ban).Error
}

func (r *deviceRepository) Unban(ctx context.Context, deviceID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_device_id = ?", deviceID).Delete(&db_models.DeviceBan{}).Error
}

func (r *deviceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.UserDevice{}).Count(&n).Error
	return n, err
}

func (r *deviceRepository) CountActiveSince(ctx context.Context, since int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.UserDevice{}).Where("last_active_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *deviceRepository) CountBanned(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.DeviceBan{}).Count(&n).Error
	return n, err
}

func (r *deviceRepository) CountByPlatform(ctx context.Context) ([]CountRow, error) {
	return countBy(r.db.WithContext(ctx).Model(&db_models.UserDevice{}), "platform")
}
