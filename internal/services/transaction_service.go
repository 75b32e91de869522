package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

const recentTransactionsLimit = 10

type TransactionServiceInterface interface {
	ListTransactions(ctx context.Context, filter repositories.TransactionFilter, page, limit int) (*response_models.Page[db_models.Transaction], error)
	Stats(ctx context.Context) (*response_models.TransactionStats, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error)
	Refund(ctx context.Context, id uuid.UUID, req request_models.RefundRequest, actor Actor) (*db_models.Transaction, error)
}

type TransactionService struct {
	txnRepo repositories.TransactionRepository
	audit   AuditServiceInterface
	logger  *zerolog.Logger
	now     func() time.Time
}

func NewTransactionService(txnRepo repositories.TransactionRepository, audit AuditServiceInterface, logger *zerolog.Logger) TransactionServiceInterface {
	return &TransactionService{txnRepo: txnRepo, audit: audit, logger: logger, now: time.Now}
}

func (t *TransactionService) ListTransactions(ctx context.Context, filter repositories.TransactionFilter, page, limit int) (*response_models.Page[db_models.Transaction], error) {
	rows, total, err := t.txnRepo.List(ctx, filter, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.Page[db_models.Transaction]{
		Data:       rows,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (t *TransactionService) Stats(ctx context.Context) (*response_models.TransactionStats, error) {
	counts, err := t.txnRepo.CountByStatus(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	revenue, err := t.txnRepo.SumAmount(ctx, db_models.TxnStatusCompleted, db_models.TxnStatusRefunded)
	if err != nil {
		return nil, dbError(err)
	}
	refunded, err := t.txnRepo.SumRefunded(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	platforms, err := t.txnRepo.PlatformDistribution(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	recent, err := t.txnRepo.Recent(ctx, recentTransactionsLimit)
	if err != nil {
		return nil, dbError(err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	completed := counts[db_models.TxnStatusCompleted]
	return &response_models.TransactionStats{
		Total:                total,
		Completed:            completed,
		Pending:              counts[db_models.TxnStatusPending],
		Failed:               counts[db_models.TxnStatusFailed],
		Refunded:             counts[db_models.TxnStatusRefunded],
		TotalRevenue:         revenue.Round(2).InexactFloat64(),
		TotalRefunded:        refunded.Round(2).InexactFloat64(),
		NetRevenue:           revenue.Sub(refunded).Round(2).InexactFloat64(),
		SuccessRate:          utils.Percentage(completed, total),
		PlatformDistribution: toCountItems(platforms),
		RecentTransactions:   recent,
	}, nil
}

func (t *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error) {
	txn, err := t.txnRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if txn == nil {
		return nil, utils.ErrTransactionNotFound
	}
	return txn, nil
}

func (t *TransactionService) Refund(ctx context.Context, id uuid.UUID, req request_models.RefundRequest, actor Actor) (*db_models.Transaction, error) {
	txn, err := t.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	switch txn.Status {
	case db_models.TxnStatusRefunded:
		return nil, utils.ErrAlreadyRefunded
	case db_models.TxnStatusCompleted:
	default:
		return nil, utils.ErrNotRefundable
	}

	amount := txn.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: refund amount must be positive", utils.ErrInvalidInput)
	}
	if amount.GreaterThan(txn.Amount) {
		return nil, utils.ErrRefundExceedsAmount
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}
	refundedAt := t.now().Unix()
	updated, err := t.txnRepo.MarkRefunded(ctx, txn.ID, refundedAt, amount, reason)
	if err != nil {
		return nil, dbError(err)
	}
	if !updated {
		// another refund won the race since the read above
		return nil, utils.ErrAlreadyRefunded
	}
	txn.Status = db_models.TxnStatusRefunded
	txn.RefundedAt = &refundedAt
	txn.RefundAmount = decimal.NewNullDecimal(amount)
	txn.RefundReason = reason

	entry := actor.entry("TRANSACTION_REFUND", "TRANSACTION", txn.ID.String(), map[string]interface{}{
		"amount":         amount.String(),
		"reason":         req.Reason,
		"originalAmount": txn.Amount.String(),
	})
	if err := t.audit.Record(ctx, entry); err != nil {
		t.logger.Error().Err(err).Str("transaction_id", txn.ID.String()).Msg("refund audit not recorded")
	}
	return txn, nil
}
