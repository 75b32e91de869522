package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type TransactionFilter struct {
	Status   string
	Platform string
	UserID   *uuid.UUID
	From     int64
	To       int64
	Search   string // transaction id or user email
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *db_models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter, page Page) ([]db_models.Transaction, int64, error)
	CountByStatus(ctx context.Context) (map[db_models.TransactionStatus]int64, error)
	// MarkRefunded applies the refund columns only while the row is still
	// COMPLETED and reports whether it did.
	MarkRefunded(ctx context.Context, id uuid.UUID, refundedAt int64, amount decimal.Decimal, reason *string) (bool, error)
	SumAmount(ctx context.Context, statuses ...db_models.TransactionStatus) (decimal.Decimal, error)
	SumRefunded(ctx context.Context) (decimal.Decimal, error)
	PlatformDistribution(ctx context.Context) ([]CountRow, error)
	Recent(ctx context.Context, limit int) ([]db_models.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, txn *db_models.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(txn).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error) {
	return firstOrNil[db_models.Transaction](r.db.WithContext(ctx).Preload("User"), "id = ?", id)
}

func (r *transactionRepository) List(ctx context.Context, f TransactionFilter, page Page) ([]db_models.Transaction, int64, error) {
	var (
		rows  []db_models.Transaction
		total int64
	)

	q := r.db.WithContext(ctx).Model(&db_models.Transaction{})
	if f.Status != "" {
		q = q.Where("transactions.status = ?", f.Status)
	}
	if f.Platform != "" {
		q = q.Where("transactions.platform = ?", f.Platform)
	}
	if f.UserID != nil {
		q = q.Where("transactions.user_id = ?", *f.UserID)
	}
	q = dateRange(q, "transactions.created_at", f.From, f.To)
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Joins("LEFT JOIN users ON users.id = transactions.user_id").
			Where("LOWER(transactions.transaction_id) LIKE LOWER(?) OR LOWER(users.email) LIKE LOWER(?)", like, like)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Preload("User").Order("transactions.created_at DESC")).Find(&rows).Error
	return rows, total, err
}

func (r *transactionRepository) CountByStatus(ctx context.Context) (map[db_models.TransactionStatus]int64, error) {
	rows, err := countBy(r.db.WithContext(ctx).Model(&db_models.Transaction{}), "status")
	if err != nil {
		return nil, err
	}
	out := make(map[db_models.TransactionStatus]int64, len(rows))
	for _, row := range rows {
		out[db_models.TransactionStatus(row.Key)] = row.Count
	}
	return out, nil
}

func (r *transactionRepository) MarkRefunded(ctx context.Context, id uuid.UUID, refundedAt int64, amount decimal.Decimal, reason *string) (bool, error) {
	fields := map[string]interface{}{
		"status":        db_models.TxnStatusRefunded,
		"refunded_at":   refundedAt,
		"refund_amount": amount,
	}
	if reason != nil {
		fields["refund_reason"] = *reason
	}
	res := r.db.WithContext(ctx).Model(&db_models.Transaction{}).
		Where("id = ? AND status = ?", id, db_models.TxnStatusCompleted).
		Updates(fields)
	return res.RowsAffected > 0, res.Error
}

// sumColumn scans through database/sql so numeric sums keep their exact digits.
func sumColumn(q *gorm.DB, column string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := q.Select("COALESCE(SUM(" + column + "), 0)").Row().Scan(&sum)
	return sum, err
}

func (r *transactionRepository) SumAmount(ctx context.Context, statuses ...db_models.TransactionStatus) (decimal.Decimal, error) {
	return sumColumn(r.db.WithContext(ctx).Model(&db_models.Transaction{}).Where("status IN ?", statuses), "amount")
}

func (r *transactionRepository) SumRefunded(ctx context.Context) (decimal.Decimal, error) {
	return sumColumn(r.db.WithContext(ctx).Model(&db_models.Transaction{}).Where("status = ?", db_models.TxnStatusRefunded), "refund_amount")
}

func (r *transactionRepository) PlatformDistribution(ctx context.Context) ([]CountRow, error) {
	return countBy(r.db.WithContext(ctx).Model(&db_models.Transaction{}), "platform")
}

func (r *transactionRepository) Recent(ctx context.Context, limit int) ([]db_models.Transaction, error) {
	var rows []db_models.Transaction
	err := r.db.WithContext(ctx).Preload("User").Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
