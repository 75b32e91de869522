package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type AuditLogFilter struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	Platform   string
	From       int64
	To         int64
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *db_models.AuditLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.AuditLog, error)
	List(ctx context.Context, filter AuditLogFilter, page Page) ([]db_models.AuditLog, int64, error)
	CountSince(ctx context.Context, since int64) (int64, error)
	GroupSince(ctx context.Context, column string, since int64, limit int) ([]CountRow, error)
	TimestampsSince(ctx context.Context, since int64) ([]int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *db_models.AuditLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *auditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.AuditLog, error) {
	return firstOrNil[db_models.AuditLog](r.db.WithContext(ctx).Preload("User"), "id = ?", id)
}

func (r *auditLogRepository) List(ctx context.Context, f AuditLogFilter, page Page) ([]db_models.AuditLog, int64, error) {
	var (
		rows  []db_models.AuditLog
		total int64
	)

	q := r.db.WithContext(ctx).Model(&db_models.AuditLog{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.Platform != "" {
		q = q.Where("platform = ?", f.Platform)
	}
	q = dateRange(q, "created_at", f.From, f.To).Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Preload("User").Order("created_at DESC")).Find(&rows).Error
	return rows, total, err
}

func (r *auditLogRepository) CountSince(ctx context.Context, since int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.AuditLog{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

// GroupSince counts rows per value of column. column must be a trusted
// identifier.
func (r *auditLogRepository) GroupSince(ctx context.Context, column string, since int64, limit int) ([]CountRow, error) {
	q := r.db.WithContext(ctx).Model(&db_models.AuditLog{}).Where("created_at >= ?", since)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return countBy(q, column)
}

func (r *auditLogRepository) TimestampsSince(ctx context.Context, since int64) ([]int64, error) {
	var ts []int64
	err := r.db.WithContext(ctx).Model(&db_models.AuditLog{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &ts).Error
	return ts, err
}
