package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type fakeGateway struct {
	event    stripe.Event
	checkout CheckoutParams
	err      error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, p CheckoutParams) (*response_models.CheckoutSessionResponse, error) {
	g.checkout = p
	if g.err != nil {
		return nil, g.err
	}
	return &response_models.CheckoutSessionResponse{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

func (g *fakeGateway) ParseWebhook(_ []byte, signature string) (stripe.Event, error) {
	if signature != "valid" {
		return stripe.Event{}, errors.New("no signatures found matching the expected signature")
	}
	return g.event, nil
}

func (f *fixture) plan(t *testing.T, name, priceID, rcProduct string, price int64) *db_models.Plan {
	t.Helper()
	p := &db_models.Plan{
		Name:        name,
		Price:       decimal.NewFromInt(price),
		PlanPriceID: priceID,
		Interval:    db_models.IntervalMonthly,
		IsActive:    true,
	}
	if rcProduct != "" {
		p.RevenueCatProductID = &rcProduct
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func checkoutEvent(t *testing.T, sess map[string]interface{}) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(sess)
	require.NoError(t, err)
	return stripe.Event{
		Type: stripe.EventTypeCheckoutSessionCompleted,
		Data: &stripe.EventData{Raw: raw},
	}
}

func newPaymentService(f *fixture, gw StripeGateway) PaymentServiceInterface {
	return NewPaymentService(
		gw,
		repositories.NewPlanRepository(f.db),
		repositories.NewUserRepository(f.db),
		repositories.NewSubscriptionRepository(f.db),
		nil,
		f.logger,
	)
}

func TestCreateCheckoutSession(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{}
	svc := newPaymentService(f, gw)
	user := f.user(t, "buyer@example.com")
	plan := f.plan(t, "Pro", "price_pro", "", 20)
	bare := f.plan(t, "Bare", "", "", 5)

	sess, err := svc.CreateCheckoutSession(bg, user.ID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "price_pro", gw.checkout.PriceID)
	assert.Equal(t, "buyer@example.com", gw.checkout.CustomerEmail)
	assert.Equal(t, user.ID.String(), gw.checkout.Metadata["userId"])
	assert.Equal(t, plan.ID.String(), gw.checkout.Metadata["planId"])

	_, err = svc.CreateCheckoutSession(bg, user.ID, uuid.New())
	assert.ErrorIs(t, err, utils.ErrPlanNotFound)
	_, err = svc.CreateCheckoutSession(bg, user.ID, bare.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	gw.err = errors.New("card_declined")
	_, err = svc.CreateCheckoutSession(bg, user.ID, plan.ID)
	assert.ErrorIs(t, err, utils.ErrPaymentProvider)
}

func TestStripeCheckoutCompletedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "stripe@example.com")
	plan := f.plan(t, "Pro", "price_pro", "", 20)
	now := time.Now().Unix()

	gw := &fakeGateway{event: checkoutEvent(t, map[string]interface{}{
		"id":           "cs_live_42",
		"object":       "checkout.session",
		"amount_total": 1999,
		"currency":     "eur",
		"created":      now,
		"expires_at":   now + 86400,
		"customer":     "cus_123",
		"subscription": "sub_456",
		"metadata": map[string]string{
			"userId":      user.ID.String(),
			"planPriceId": "price_pro",
		},
	})}
	svc := newPaymentService(f, gw)

	require.NoError(t, svc.HandleStripeWebhook(bg, []byte("{}"), "valid"))
	require.NoError(t, svc.HandleStripeWebhook(bg, []byte("{}"), "valid"))

	var subs []db_models.Subscription
	require.NoError(t, f.db.Find(&subs, "user_id = ?", user.ID).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, plan.ID, subs[0].PlanID)
	assert.Equal(t, "sub_456", subs[0].SubscriptionID)
	assert.Equal(t, db_models.PlatformWeb, subs[0].PurchasePlatform)
	assert.Equal(t, time.Unix(now, 0).UTC().AddDate(0, 1, 0).Unix(), subs[0].EndDate)

	var txns []db_models.Transaction
	require.NoError(t, f.db.Find(&txns, "user_id = ?", user.ID).Error)
	require.Len(t, txns, 1)
	assert.Equal(t, "cs_live_42", txns[0].TransactionID)
	assert.Equal(t, "EUR", txns[0].Currency)
	assert.True(t, decimal.RequireFromString("19.99").Equal(txns[0].Amount), txns[0].Amount.String())
	require.NotNil(t, txns[0].SubscriptionID)
	assert.Equal(t, subs[0].ID, *txns[0].SubscriptionID)

	var stored db_models.User
	require.NoError(t, f.db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "cus_123", stored.StripeCustomerID)
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	svc := newPaymentService(f, &fakeGateway{})
	assert.ErrorIs(t, svc.HandleStripeWebhook(bg, []byte("{}"), "forged"), utils.ErrInvalidSignature)
}

func TestStripeWebhookIgnoresUnknownUsersAndEvents(t *testing.T) {
	f := newFixture(t)
	gw := &fakeGateway{event: checkoutEvent(t, map[string]interface{}{
		"id":       "cs_orphan",
		"metadata": map[string]string{"userId": uuid.NewString()},
	})}
	svc := newPaymentService(f, gw)
	require.NoError(t, svc.HandleStripeWebhook(bg, nil, "valid"))

	gw.event = stripe.Event{Type: "invoice.paid", Data: &stripe.EventData{Raw: json.RawMessage(`{}`)}}
	require.NoError(t, svc.HandleStripeWebhook(bg, nil, "valid"))

	var n int64
	f.db.Model(&db_models.Transaction{}).Count(&n)
	assert.Zero(t, n)
}

func newRevenueCatService(f *fixture, secret string) *RevenueCatService {
	return NewRevenueCatService(
		secret,
		repositories.NewSubscriptionRepository(f.db),
		repositories.NewPlanRepository(f.db),
		repositories.NewUserRepository(f.db),
		repositories.NewTransactionRepository(f.db),
		repositories.NewNotificationRepository(f.db),
		nil,
		f.logger,
	).(*RevenueCatService)
}

func rcEvent(id, kind string, user uuid.UUID, product string) request_models.RevenueCatWebhook {
	return request_models.RevenueCatWebhook{Event: request_models.RevenueCatEvent{
		ID:             id,
		Type:           kind,
		AppUserID:      user.String(),
		ProductID:      product,
		EntitlementID:  "premium",
		Store:          "APP_STORE",
		PurchasedAtMs:  1_700_000_000_000,
		ExpirationAtMs: 1_702_592_000_000,
	}}
}

func TestRevenueCatAuthorization(t *testing.T) {
	f := newFixture(t)
	svc := newRevenueCatService(f, "rc-secret")
	ev := rcEvent("e1", "TEST", uuid.New(), "pro_monthly")

	assert.ErrorIs(t, svc.HandleWebhook(bg, "wrong", ev), utils.ErrUnauthorizedWebhook)
	assert.ErrorIs(t, svc.HandleWebhook(bg, "", ev), utils.ErrUnauthorizedWebhook)
	assert.NoError(t, svc.HandleWebhook(bg, "rc-secret", ev))
	assert.NoError(t, svc.HandleWebhook(bg, "Bearer rc-secret", ev))
}

func latestSub(t *testing.T, f *fixture, userID uuid.UUID) db_models.Subscription {
	t.Helper()
	var sub db_models.Subscription
	require.NoError(t, f.db.Order("created_at DESC").First(&sub, "user_id = ?", userID).Error)
	return sub
}

func TestRevenueCatLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := newRevenueCatService(f, "")
	user := f.user(t, "mobile@example.com")
	monthly := f.plan(t, "Pro Monthly", "", "pro_monthly", 10)
	yearly := f.plan(t, "Pro Yearly", "", "pro_yearly", 100)

	purchase := rcEvent("evt_purchase", rcInitialPurchase, user.ID, "pro_monthly")
	require.NoError(t, svc.HandleWebhook(bg, "", purchase))
	require.NoError(t, svc.HandleWebhook(bg, "", purchase), "replay is acknowledged")

	sub := latestSub(t, f, user.ID)
	assert.Equal(t, db_models.SubStatusActive, sub.Status)
	assert.Equal(t, monthly.ID, sub.PlanID)
	assert.Equal(t, int64(1_700_000_000), sub.StartDate)
	assert.Equal(t, int64(1_702_592_000), sub.EndDate)
	require.NotNil(t, sub.Store)
	assert.Equal(t, "APP_STORE", *sub.Store)

	var subCount, txnCount int64
	f.db.Model(&db_models.Subscription{}).Count(&subCount)
	f.db.Model(&db_models.Transaction{}).Count(&txnCount)
	assert.Equal(t, int64(1), subCount)
	assert.Equal(t, int64(1), txnCount)

	renewal := rcEvent("evt_renew", rcRenewal, user.ID, "pro_monthly")
	renewal.Event.ExpirationAtMs = 1_705_270_400_000
	require.NoError(t, svc.HandleWebhook(bg, "", renewal))
	sub = latestSub(t, f, user.ID)
	assert.Equal(t, int64(1_705_270_400), sub.EndDate)

	var renewTxn db_models.Transaction
	require.NoError(t, f.db.First(&renewTxn, "transaction_id = ?", "evt_renew").Error)
	assert.Equal(t, "apple_pay", renewTxn.PaymentMethod)
	assert.Equal(t, "Pro Monthly - Renewal", renewTxn.Description)
	assert.True(t, decimal.NewFromInt(10).Equal(renewTxn.Amount))

	cancel := rcEvent("evt_cancel", rcCancellation, user.ID, "pro_monthly")
	cancel.Event.CancellationAtMs = 1_704_000_000_000
	require.NoError(t, svc.HandleWebhook(bg, "", cancel))
	sub = latestSub(t, f, user.ID)
	assert.Equal(t, db_models.SubStatusCanceled, sub.Status)
	require.NotNil(t, sub.CanceledAt)
	assert.Equal(t, int64(1_704_000_000), *sub.CanceledAt)

	require.NoError(t, svc.HandleWebhook(bg, "", rcEvent("evt_uncancel", rcUncancellation, user.ID, "pro_monthly")))
	sub = latestSub(t, f, user.ID)
	assert.Equal(t, db_models.SubStatusActive, sub.Status)
	assert.Nil(t, sub.CanceledAt)
	assert.Nil(t, sub.CancelReason)

	change := rcEvent("evt_change", rcProductChange, user.ID, "pro_monthly")
	change.Event.NewProductID = "pro_yearly"
	require.NoError(t, svc.HandleWebhook(bg, "", change))
	sub = latestSub(t, f, user.ID)
	assert.Equal(t, yearly.ID, sub.PlanID)
	require.NotNil(t, sub.PreviousPlanID)
	assert.Equal(t, monthly.ID, *sub.PreviousPlanID)
	require.NotNil(t, sub.RevenueCatProductID)
	assert.Equal(t, "pro_yearly", *sub.RevenueCatProductID)

	require.NoError(t, svc.HandleWebhook(bg, "", rcEvent("evt_expire", rcExpiration, user.ID, "pro_yearly")))
	sub = latestSub(t, f, user.ID)
	assert.Equal(t, db_models.SubStatusExpired, sub.Status)
}

func TestRevenueCatBillingIssueNotifiesUser(t *testing.T) {
	f := newFixture(t)
	svc := newRevenueCatService(f, "")
	user := f.user(t, "billing@example.com")

	require.NoError(t, svc.HandleWebhook(bg, "", rcEvent("evt_bill", rcBillingIssue, user.ID, "pro_monthly")))

	var notes []db_models.Notification
	require.NoError(t, f.db.Find(&notes, "user_id = ?", user.ID).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, db_models.NotificationWarning, notes[0].Type)
	assert.False(t, notes[0].IsRead)
}

func TestRevenueCatIgnoresUnknownSubjects(t *testing.T) {
	f := newFixture(t)
	svc := newRevenueCatService(f, "")
	user := f.user(t, "nobody@example.com")

	ev := rcEvent("x1", rcInitialPurchase, user.ID, "unknown_product")
	assert.NoError(t, svc.HandleWebhook(bg, "", ev))
	ev = rcEvent("x2", rcInitialPurchase, uuid.New(), "pro_monthly")
	assert.NoError(t, svc.HandleWebhook(bg, "", ev))
	ev.Event.AppUserID = "$RCAnonymousID:abc"
	assert.NoError(t, svc.HandleWebhook(bg, "", ev))

	var n int64
	f.db.Model(&db_models.Subscription{}).Count(&n)
	assert.Zero(t, n)
}

func newTxn(t *testing.T, f *fixture, user *db_models.User, status db_models.TransactionStatus, amount string, platform string) *db_models.Transaction {
	t.Helper()
	txn := &db_models.Transaction{
		UserID:        user.ID,
		TransactionID: fmt.Sprintf("txn_%s", uuid.NewString()),
		Amount:        decimal.RequireFromString(amount),
		Currency:      "USD",
		Status:        status,
		Platform:      platform,
	}
	require.NoError(t, f.db.Create(txn).Error)
	return txn
}

func TestRefund(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(repositories.NewTransactionRepository(f.db), f.audit, f.logger)
	user := f.user(t, "refund@example.com")
	actor := f.actor(t)

	completed := newTxn(t, f, user, db_models.TxnStatusCompleted, "50.00", db_models.PlatformWeb)
	pending := newTxn(t, f, user, db_models.TxnStatusPending, "10.00", db_models.PlatformWeb)

	tooMuch := decimal.RequireFromString("50.01")
	_, err := svc.Refund(bg, completed.ID, request_models.RefundRequest{Amount: &tooMuch}, actor)
	assert.ErrorIs(t, err, utils.ErrRefundExceedsAmount)

	zero := decimal.Zero
	_, err = svc.Refund(bg, completed.ID, request_models.RefundRequest{Amount: &zero}, actor)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = svc.Refund(bg, pending.ID, request_models.RefundRequest{}, actor)
	assert.ErrorIs(t, err, utils.ErrNotRefundable)

	partial := decimal.RequireFromString("20.00")
	refunded, err := svc.Refund(bg, completed.ID, request_models.RefundRequest{Amount: &partial, Reason: "duplicate charge"}, actor)
	require.NoError(t, err)
	assert.Equal(t, db_models.TxnStatusRefunded, refunded.Status)
	assert.True(t, refunded.RefundAmount.Valid)
	assert.True(t, partial.Equal(refunded.RefundAmount.Decimal))
	require.NotNil(t, refunded.RefundReason)
	assert.Equal(t, "duplicate charge", *refunded.RefundReason)
	assert.NotNil(t, refunded.RefundedAt)

	_, err = svc.Refund(bg, completed.ID, request_models.RefundRequest{}, actor)
	assert.ErrorIs(t, err, utils.ErrAlreadyRefunded)
	_, err = svc.Refund(bg, uuid.New(), request_models.RefundRequest{}, actor)
	assert.ErrorIs(t, err, utils.ErrTransactionNotFound)

	assert.Equal(t, []string{"TRANSACTION_REFUND"}, f.auditActions(t, "TRANSACTION"))
}

func TestTransactionStats(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(repositories.NewTransactionRepository(f.db), f.audit, f.logger)
	user := f.user(t, "stats@example.com")

	newTxn(t, f, user, db_models.TxnStatusCompleted, "30.00", db_models.PlatformWeb)
	newTxn(t, f, user, db_models.TxnStatusCompleted, "20.00", db_models.PlatformMobile)
	newTxn(t, f, user, db_models.TxnStatusFailed, "5.00", db_models.PlatformWeb)
	toRefund := newTxn(t, f, user, db_models.TxnStatusCompleted, "50.00", db_models.PlatformWeb)

	part := decimal.NewFromInt(10)
	_, err := svc.Refund(bg, toRefund.ID, request_models.RefundRequest{Amount: &part}, f.actor(t))
	require.NoError(t, err)

	stats, err := svc.Stats(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Refunded)
	assert.InDelta(t, 100.0, stats.TotalRevenue, 0.001)
	assert.InDelta(t, 10.0, stats.TotalRefunded, 0.001)
	assert.InDelta(t, 90.0, stats.NetRevenue, 0.001)
	assert.InDelta(t, 50.0, stats.SuccessRate, 0.001)
	assert.Len(t, stats.RecentTransactions, 4)
}

// raceRepo lets a concurrent refund land between the service's read and its update.
type raceRepo struct {
	repositories.TransactionRepository
	db *gorm.DB
}

func (r raceRepo) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error) {
	txn, err := r.TransactionRepository.FindByID(ctx, id)
	if err != nil || txn == nil {
		return txn, err
	}
	if err := r.db.Model(&db_models.Transaction{}).Where("id = ?", id).
		Update("status", db_models.TxnStatusRefunded).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func TestRefundLosesRaceToConcurrentRefund(t *testing.T) {
	f := newFixture(t)
	repo := raceRepo{TransactionRepository: repositories.NewTransactionRepository(f.db), db: f.db}
	svc := NewTransactionService(repo, f.audit, f.logger)
	txn := newTxn(t, f, f.user(t, "race@example.com"), db_models.TxnStatusCompleted, "40.00", db_models.PlatformWeb)

	_, err := svc.Refund(bg, txn.ID, request_models.RefundRequest{Reason: "double click"}, f.actor(t))
	assert.ErrorIs(t, err, utils.ErrAlreadyRefunded)

	var stored db_models.Transaction
	require.NoError(t, f.db.First(&stored, "id = ?", txn.ID).Error)
	assert.False(t, stored.RefundAmount.Valid)
	assert.Nil(t, stored.RefundReason)
	assert.Empty(t, f.auditActions(t, "TRANSACTION"))
}

func TestTransactionStatsRoundsDecimalSums(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(repositories.NewTransactionRepository(f.db), f.audit, f.logger)
	user := f.user(t, "cents@example.com")
	newTxn(t, f, user, db_models.TxnStatusCompleted, "0.10", db_models.PlatformWeb)
	newTxn(t, f, user, db_models.TxnStatusCompleted, "0.20", db_models.PlatformWeb)

	stats, err := svc.Stats(bg)
	require.NoError(t, err)
	assert.Equal(t, 0.3, stats.TotalRevenue)
	assert.Equal(t, 0.0, stats.TotalRefunded)
	assert.Equal(t, 0.3, stats.NetRevenue)
}
