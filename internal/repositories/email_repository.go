package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type EmailTemplateRepository interface {
	List(ctx context.Context) ([]db_models.EmailTemplate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.EmailTemplate, error)
	FindByName(ctx context.Context, name string) (*db_models.EmailTemplate, error)
	Create(ctx context.Context, tpl *db_models.EmailTemplate) error
	Save(ctx context.Context, tpl *db_models.EmailTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type emailTemplateRepository struct {
	db *gorm.DB
}

func NewEmailTemplateRepository(db *gorm.DB) EmailTemplateRepository {
	return &emailTemplateRepository{db: db}
}

func (r *emailTemplateRepository) List(ctx context.Context) ([]db_models.EmailTemplate, error) {
	var rows []db_models.EmailTemplate
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *emailTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.EmailTemplate, error) {
	return firstOrNil[db_models.EmailTemplate](r.db.WithContext(ctx), "id = ?", id)
}

func (r *emailTemplateRepository) FindByName(ctx context.Context, name string) (*db_models.EmailTemplate, error) {
	return firstOrNil[db_models.EmailTemplate](r.db.WithContext(ctx), "name = ?", name)
}

func (r *emailTemplateRepository) Create(ctx context.Context, tpl *db_models.EmailTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *emailTemplateRepository) Save(ctx context.Context, tpl *db_models.EmailTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *emailTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.EmailTemplate{}, "id = ?", id).Error
}

type EmailLogFilter struct {
	Status string
	UserID *uuid.UUID
	From   int64
	To     int64
	Search string // recipient or subject
}

type EmailLogRepository interface {
	Create(ctx context.Context, entry *db_models.EmailLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.EmailLog, error)
	List(ctx context.Context, filter EmailLogFilter, page Page) ([]db_models.EmailLog, int64, error)
	CountByStatus(ctx context.Context, since int64) (map[db_models.EmailStatus]int64, error)
}

type emailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, entry *db_models.EmailLog) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (r *emailLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.EmailLog, error) {
	return firstOrNil[db_models.EmailLog](r.db.WithContext(ctx).Preload("User"), "id = ?", id)
}

func (r *emailLogRepository) List(ctx context.Context, f EmailLogFilter, page Page) ([]db_models.EmailLog, int64, error) {
	var (
		rows  []db_models.EmailLog
		total int64
	)

	q := r.db.WithContext(ctx).Model(&db_models.EmailLog{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	q = dateRange(q, "sent_at", f.From, f.To)
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("LOWER(to_address) LIKE LOWER(?) OR LOWER(subject) LIKE LOWER(?)", like, like)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Order("sent_at DESC")).Find(&rows).Error
	return rows, total, err
}

// CountByStatus counts logs sent at or after since. A zero since counts all.
func (r *emailLogRepository) CountByStatus(ctx context.Context, since int64) (map[db_models.EmailStatus]int64, error) {
	q := r.db.WithContext(ctx).Model(&db_models.EmailLog{})
	if since > 0 {
		q = q.Where("sent_at >= ?", since)
	}
	rows, err := countBy(q, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[db_models.EmailStatus]int64, len(rows))
	for _, row := range rows {
		out[db_models.EmailStatus(row.Key)] = row.Count
	}
	return out, nil
}
