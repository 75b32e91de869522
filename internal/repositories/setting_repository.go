package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type SettingRepository interface {
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	Upsert(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetMany(ctx context.Context, keys []string) (map[string]string, error) {
	var rows []db_models.Setting
	err := r.db.WithContext(ctx).
		Where(clause.IN{Column: clause.Column{Name: "key"}, Values: toValues(keys)}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *settingRepository) Upsert(ctx context.Context, key, value string) error {
	row := db_models.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func toValues(keys []string) []interface{} {
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

type WaitingListRepository interface {
	Create(ctx context.Context, entry *db_models.WaitingList) error
	List(ctx context.Context) ([]db_models.WaitingList, error)
	Count(ctx context.Context, since int64) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type waitingListRepository struct {
	db *gorm.DB
}

func NewWaitingListRepository(db *gorm.DB) WaitingListRepository {
	return &waitingListRepository{db: db}
}

func (r *waitingListRepository) Create(ctx context.Context, entry *db_models.WaitingList) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *waitingListRepository) List(ctx context.Context) ([]db_models.WaitingList, error) {
	var rows []db_models.WaitingList
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// Count returns entries created at or after since. A zero since counts all.
func (r *waitingListRepository) Count(ctx context.Context, since int64) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&db_models.WaitingList{})
	if since > 0 {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *waitingListRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&db_models.WaitingList{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
