package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "backoffice/internal/models/db_models"
)

type DashboardRepository interface {
	// KPIs / counts
	CountTotalUsers(ctx context.Context) (int64, error)
	CountUsersByStatus(ctx context.Context, status dbm.UserStatus) (int64, error)
	CountNewUsers(ctx context.Context, start, end time.Time) (int64, error)
	CountUsersUntil(ctx context.Context, end time.Time) (int64, error)

	CountTotalSubscriptions(ctx context.Context) (int64, error)
	CountSubscriptionsByStatus(ctx context.Context, status dbm.SubscriptionStatus) (int64, error)
	CountNewSubscriptions(ctx context.Context, start, end time.Time) (int64, error)
	CountCanceledInPeriod(ctx context.Context, start, end time.Time) (int64, error)

	// MRR and monthly revenue inputs
	ActiveSubscriptionsWithPlan(ctx context.Context) ([]SubWithPlan, error)
	RevenueCandidates(ctx context.Context, end time.Time) ([]SubWithPlan, error)

	// Distributions
	PlanMix(ctx context.Context) ([]PlanMixRow, error)
	LoginPlatformMix(ctx context.Context) ([]CountRow, error)

	// Recent activity
	RecentUsers(ctx context.Context, limit int) ([]dbm.User, error)
	RecentSubscriptions(ctx context.Context, limit int) ([]dbm.Subscription, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type SubWithPlan struct {
	SubID            string  `gorm:"column:sub_id"`
	PlanID           string  `gorm:"column:plan_id"`
	PlanName         string  `gorm:"column:plan_name"`
	Interval         string  `gorm:"column:plan_interval"`
	Price            float64 `gorm:"column:price"`
	Status           string  `gorm:"column:status"`
	PurchasePlatform string  `gorm:"column:purchase_platform"`
	StartDate        int64   `gorm:"column:start_date"`
	CanceledAt       *int64  `gorm:"column:canceled_at"`
}

type PlanMixRow struct {
	PlanID   string `gorm:"column:plan_id" json:"planId"`
	PlanName string `gorm:"column:plan_name" json:"planName"`
	Count    int64  `gorm:"column:total" json:"count"`
}

const subWithPlanColumns = `s.id AS sub_id, s.plan_id, p.name AS plan_name, p.interval AS plan_interval,
	p.price AS price, s.status, s.purchase_platform, s.start_date, s.canceled_at`

// ---------- Counts ----------
func (r *dashboardRepository) CountTotalUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.User{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountUsersByStatus(ctx context.Context, status dbm.UserStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.User{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountNewUsers(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.User{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountUsersUntil(ctx context.Context, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.User{}).Where("created_at <= ?", end.Unix()).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountTotalSubscriptions(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Subscription{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountSubscriptionsByStatus(ctx context.Context, status dbm.SubscriptionStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountNewSubscriptions(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("created_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountCanceledInPeriod(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("status = ?", dbm.SubStatusCanceled).
		Where("canceled_at IS NOT NULL AND canceled_at BETWEEN ? AND ?", start.Unix(), end.Unix()).
		Count(&n).Error
	return n, err
}

// ---------- Revenue inputs ----------
func (r *dashboardRepository) ActiveSubscriptionsWithPlan(ctx context.Context) ([]SubWithPlan, error) {
	var rows []SubWithPlan
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select(subWithPlanColumns).
		Joins("JOIN plans p ON p.id = s.plan_id").
		Where("s.status = ?", dbm.SubStatusActive).
		Find(&rows).Error
	return rows, err
}

// RevenueCandidates returns ACTIVE and CANCELED subscriptions that started on
// or before end. Callers decide per month which of them still paid.
func (r *dashboardRepository) RevenueCandidates(ctx context.Context, end time.Time) ([]SubWithPlan, error) {
	var rows []SubWithPlan
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select(subWithPlanColumns).
		Joins("JOIN plans p ON p.id = s.plan_id").
		Where("s.start_date <= ?", end.Unix()).
		Where("s.status IN ?", []dbm.SubscriptionStatus{dbm.SubStatusActive, dbm.SubStatusCanceled}).
		Find(&rows).Error
	return rows, err
}

// ---------- Distributions ----------
func (r *dashboardRepository) PlanMix(ctx context.Context) ([]PlanMixRow, error) {
	var rows []PlanMixRow
	err := r.db.WithContext(ctx).
		Table("subscriptions s").
		Select("s.plan_id, p.name AS plan_name, COUNT(*) AS total").
		Joins("JOIN plans p ON p.id = s.plan_id").
		Where("s.status = ?", dbm.SubStatusActive).
		Group("s.plan_id, p.name").
		Order("total DESC").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) LoginPlatformMix(ctx context.Context) ([]CountRow, error) {
	return countBy(r.db.WithContext(ctx).Model(&dbm.User{}).Where("last_login_platform <> ''"), "last_login_platform")
}

// ---------- Recent activity ----------
func (r *dashboardRepository) RecentUsers(ctx context.Context, limit int) ([]dbm.User, error) {
	var rows []dbm.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) RecentSubscriptions(ctx context.Context, limit int) ([]dbm.Subscription, error) {
	var rows []dbm.Subscription
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Plan").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
