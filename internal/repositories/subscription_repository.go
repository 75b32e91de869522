package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type SubscriptionRepository interface {
	List(ctx context.Context, page Page) ([]db_models.Subscription, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	FindLatestByUserProduct(ctx context.Context, userID uuid.UUID, productID string, statuses ...db_models.SubscriptionStatus) (*db_models.Subscription, error)
	FindLatestActiveMobile(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error)
	Create(ctx context.Context, sub *db_models.Subscription) error
	Save(ctx context.Context, sub *db_models.Subscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExpireOverdue(ctx context.Context, now int64) (int64, error)

	// CreateWithTransaction stores a subscription and its first payment
	// atomically. A duplicate payment id rolls both back.
	CreateWithTransaction(ctx context.Context, sub *db_models.Subscription, txn *db_models.Transaction) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) List(ctx context.Context, page Page) ([]db_models.Subscription, int64, error) {
	var (
		subs  []db_models.Subscription
		total int64
	)
	q := r.db.WithContext(ctx).Model(&db_models.Subscription{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Preload("User").Preload("Plan").Order("created_at DESC")).Find(&subs).Error
	return subs, total, err
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	return firstOrNil[db_models.Subscription](r.db.WithContext(ctx).Preload("User").Preload("Plan"), "id = ?", id)
}

// FindLatestByUserProduct matches any status unless statuses are given.
func (r *subscriptionRepository) FindLatestByUserProduct(ctx context.Context, userID uuid.UUID, productID string, statuses ...db_models.SubscriptionStatus) (*db_models.Subscription, error) {
	q := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND revenue_cat_product_id = ?", userID, productID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	return firstOrNil[db_models.Subscription](q.Order("created_at DESC"))
}

func (r *subscriptionRepository) FindLatestActiveMobile(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error) {
	return firstOrNil[db_models.Subscription](r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ? AND revenue_cat_product_id IS NOT NULL", userID, db_models.SubStatusActive).
		Order("created_at DESC"))
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sub).Error
}

func (r *subscriptionRepository) Save(ctx context.Context, sub *db_models.Subscription) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(sub).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.Subscription{}, "id = ?", id).Error
}

func (r *subscriptionRepository) ExpireOverdue(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&db_models.Subscription{}).
		Where("status = ? AND end_date < ?", db_models.SubStatusActive, now).
		Update("status", db_models.SubStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *subscriptionRepository) CreateWithTransaction(ctx context.Context, sub *db_models.Subscription, txn *db_models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(sub).Error; err != nil {
			return err
		}
		txn.SubscriptionID = &sub.ID
		return tx.Omit(clause.Associations).Create(txn).Error
	})
}
