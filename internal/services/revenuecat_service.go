package services

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

const (
	rcInitialPurchase      = "INITIAL_PURCHASE"
	rcNonRenewingPurchase  = "NON_RENEWING_PURCHASE"
	rcRenewal              = "RENEWAL"
	rcCancellation         = "CANCELLATION"
	rcUncancellation       = "UNCANCELLATION"
	rcSubscriptionExtended = "SUBSCRIPTION_EXTENDED"
	rcExpiration           = "EXPIRATION"
	rcBillingIssue         = "BILLING_ISSUE"
	rcProductChange        = "PRODUCT_CHANGE"
)

type RevenueCatServiceInterface interface {
	// Authorize checks the Authorization header against the shared secret.
	Authorize(authorization string) error
	// HandleWebhook checks the shared secret and applies one event. Events
	// for unknown users or products are logged and acknowledged.
	HandleWebhook(ctx context.Context, authorization string, payload request_models.RevenueCatWebhook) error
}

type RevenueCatService struct {
	secret    string
	subRepo   repositories.SubscriptionRepository
	planRepo  repositories.IPlanRepository
	userRepo  repositories.UserRepository
	txnRepo   repositories.TransactionRepository
	notifRepo repositories.NotificationRepository
	metrics   *observability.Metrics
	logger    *zerolog.Logger
	now       func() time.Time
}

func NewRevenueCatService(
	secret string,
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.IPlanRepository,
	userRepo repositories.UserRepository,
	txnRepo repositories.TransactionRepository,
	notifRepo repositories.NotificationRepository,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) RevenueCatServiceInterface {
	return &RevenueCatService{
		secret:    secret,
		subRepo:   subRepo,
		planRepo:  planRepo,
		userRepo:  userRepo,
		txnRepo:   txnRepo,
		notifRepo: notifRepo,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *RevenueCatService) authorized(header string) bool {
	if r.secret == "" {
		return true
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return subtle.ConstantTimeCompare([]byte(token), []byte(r.secret)) == 1
}

func (r *RevenueCatService) Authorize(authorization string) error {
	if !r.authorized(authorization) {
		return utils.ErrUnauthorizedWebhook
	}
	return nil
}

func (r *RevenueCatService) HandleWebhook(ctx context.Context, authorization string, payload request_models.RevenueCatWebhook) error {
	if err := r.Authorize(authorization); err != nil {
		return err
	}
	ev := payload.Event
	if ev.ID == "" {
		ev.ID = payload.ID
	}
	r.metrics.Webhook("revenuecat", ev.Type)
	log := r.logger.With().Str("event_type", ev.Type).Str("event_id", ev.ID).Str("app_user_id", ev.AppUserID).Logger()

	userID, err := uuid.Parse(ev.AppUserID)
	if err != nil {
		log.Warn().Msg("RevenueCat event for a non-uuid app user, ignored")
		return nil
	}

	switch ev.Type {
	case rcInitialPurchase, rcNonRenewingPurchase:
		return r.initialPurchase(ctx, &log, userID, ev)
	case rcRenewal:
		return r.renewal(ctx, &log, userID, ev)
	case rcCancellation:
		return r.updateLatest(ctx, &log, userID, ev.ProductID, []db_models.SubscriptionStatus{db_models.SubStatusActive}, func(sub *db_models.Subscription) {
			at := utils.FromUnixMillis(ev.CancellationAtMs)
			if at == 0 {
				at = r.now().Unix()
			}
			reason := "User cancelled subscription"
			sub.Status = db_models.SubStatusCanceled
			sub.CanceledAt = &at
			sub.CancelReason = &reason
		})
	case rcUncancellation:
		return r.updateLatest(ctx, &log, userID, ev.ProductID, []db_models.SubscriptionStatus{db_models.SubStatusCanceled}, func(sub *db_models.Subscription) {
			sub.Status = db_models.SubStatusActive
			sub.CanceledAt = nil
			sub.CancelReason = nil
		})
	case rcSubscriptionExtended:
		return r.updateLatest(ctx, &log, userID, ev.ProductID, nil, func(sub *db_models.Subscription) {
			extend(sub, ev.ExpirationAtMs)
		})
	case rcExpiration:
		return r.updateLatest(ctx, &log, userID, ev.ProductID, nil, func(sub *db_models.Subscription) {
			sub.Status = db_models.SubStatusExpired
		})
	case rcBillingIssue:
		return r.billingIssue(ctx, &log, userID, ev)
	case rcProductChange:
		return r.productChange(ctx, &log, userID, ev)
	default:
		log.Info().Msg("unhandled RevenueCat event type")
		return nil
	}
}

func extend(sub *db_models.Subscription, expirationMs int64) {
	if end := utils.FromUnixMillis(expirationMs); end > 0 {
		sub.EndDate = end
		sub.NextBillingDate = &end
	}
}

func paymentMethodFor(store string) string {
	if store == "APP_STORE" {
		return "apple_pay"
	}
	return "google_pay"
}

// transactionID falls back to a generated id so a missing event id never
// collides on the unique column.
func transactionID(ev request_models.RevenueCatEvent) string {
	if ev.ID != "" {
		return ev.ID
	}
	return "rc_" + uuid.NewString()
}

func (r *RevenueCatService) initialPurchase(ctx context.Context, log *zerolog.Logger, userID uuid.UUID, ev request_models.RevenueCatEvent) error {
	user, err := r.userRepo.FindByID(ctx, userID)
	if err != nil {
		return dbError(err)
	}
	if user == nil {
		log.Error().Msg("user not found for RevenueCat purchase")
		return nil
	}
	plan, err := r.planRepo.GetPlanByRevenueCatProduct(ctx, ev.ProductID)
	if err != nil {
		return dbError(err)
	}
	if plan == nil {
		log.Error().Str("product_id", ev.ProductID).Msg("plan not found for RevenueCat product")
		return nil
	}

	start := utils.FromUnixMillis(ev.PurchasedAtMs)
	if start == 0 {
		start = r.now().Unix()
	}
	end := utils.FromUnixMillis(ev.ExpirationAtMs)
	if end == 0 {
		end = start
	}
	customer, product, entitlement, store := ev.AppUserID, ev.ProductID, ev.EntitlementID, ev.Store
	txnID := transactionID(ev)

	sub := &db_models.Subscription{
		UserID:                userID,
		PlanID:                plan.ID,
		Status:                db_models.SubStatusActive,
		StartDate:             start,
		EndDate:               end,
		SubscriptionID:        txnID,
		PurchasePlatform:      db_models.PlatformMobile,
		RevenueCatCustomerID:  &customer,
		RevenueCatProductID:   &product,
		RevenueCatEntitlement: &entitlement,
		NextBillingDate:       &end,
	}
	if store != "" {
		sub.Store = &store
	}
	txn := &db_models.Transaction{
		UserID:        userID,
		TransactionID: txnID,
		Amount:        plan.Price,
		Currency:      "USD",
		Status:        db_models.TxnStatusCompleted,
		PaymentMethod: paymentMethodFor(store),
		Platform:      db_models.PlatformMobile,
		Description:   plan.Name + " - Initial Purchase",
	}

	if err := r.subRepo.CreateWithTransaction(ctx, sub, txn); err != nil {
		if isDuplicate(err) {
			log.Info().Msg("RevenueCat purchase already processed")
			return nil
		}
		return dbError(err)
	}
	log.Info().Str("subscription_id", sub.ID.String()).Msg("RevenueCat purchase recorded")
	return nil
}

func (r *RevenueCatService) renewal(ctx context.Context, log *zerolog.Logger, userID uuid.UUID, ev request_models.RevenueCatEvent) error {
	sub, err := r.subRepo.FindLatestByUserProduct(ctx, userID, ev.ProductID, db_models.SubStatusActive)
	if err != nil {
		return dbError(err)
	}
	if sub == nil {
		log.Warn().Msg("no active subscription to renew")
		return nil
	}
	plan := sub.Plan
	extend(sub, ev.ExpirationAtMs)
	sub.Plan = nil
	if err := r.subRepo.Save(ctx, sub); err != nil {
		return dbError(err)
	}

	store := ""
	if sub.Store != nil {
		store = *sub.Store
	}
	txn := &db_models.Transaction{
		UserID:         userID,
		SubscriptionID: &sub.ID,
		TransactionID:  transactionID(ev),
		Currency:       "USD",
		Status:         db_models.TxnStatusCompleted,
		PaymentMethod:  paymentMethodFor(store),
		Platform:       db_models.PlatformMobile,
	}
	if plan != nil {
		txn.Amount = plan.Price
		txn.Description = plan.Name + " - Renewal"
	}
	if err := r.txnRepo.Create(ctx, txn); err != nil {
		if isDuplicate(err) {
			log.Info().Msg("RevenueCat renewal already processed")
			return nil
		}
		return dbError(err)
	}
	return nil
}

// updateLatest applies mutate to the newest matching subscription, if any.
func (r *RevenueCatService) updateLatest(
	ctx context.Context,
	log *zerolog.Logger,
	userID uuid.UUID,
	productID string,
	statuses []db_models.SubscriptionStatus,
	mutate func(sub *db_models.Subscription),
) error {
	sub, err := r.subRepo.FindLatestByUserProduct(ctx, userID, productID, statuses...)
	if err != nil {
		return dbError(err)
	}
	if sub == nil {
		log.Warn().Str("product_id", productID).Msg("no matching subscription for RevenueCat event")
		return nil
	}
	mutate(sub)
	sub.Plan = nil
	if err := r.subRepo.Save(ctx, sub); err != nil {
		return dbError(err)
	}
	return nil
}

func (r *RevenueCatService) billingIssue(ctx context.Context, log *zerolog.Logger, userID uuid.UUID, ev request_models.RevenueCatEvent) error {
	log.Warn().Str("product_id", ev.ProductID).Msg("RevenueCat billing issue")

	user, err := r.userRepo.FindByID(ctx, userID)
	if err != nil {
		return dbError(err)
	}
	if user == nil {
		return nil
	}
	n := &db_models.Notification{
		UserID:   userID,
		Title:    "Billing issue",
		Message:  "We could not process your latest payment. Please update your payment method.",
		Type:     db_models.NotificationWarning,
		Metadata: mustJSON(map[string]string{"productId": ev.ProductID, "eventId": ev.ID}),
	}
	if err := r.notifRepo.Create(ctx, n); err != nil {
		return dbError(err)
	}
	return nil
}

func (r *RevenueCatService) productChange(ctx context.Context, log *zerolog.Logger, userID uuid.UUID, ev request_models.RevenueCatEvent) error {
	oldProduct := ev.OldProductID
	if oldProduct == "" {
		oldProduct = ev.ProductID
	}
	plan, err := r.planRepo.GetPlanByRevenueCatProduct(ctx, ev.NewProductID)
	if err != nil {
		return dbError(err)
	}
	if plan == nil {
		log.Error().Str("product_id", ev.NewProductID).Msg("plan not found for new RevenueCat product")
		return nil
	}
	newProduct := ev.NewProductID
	return r.updateLatest(ctx, log, userID, oldProduct, nil, func(sub *db_models.Subscription) {
		previous := sub.PlanID
		sub.PreviousPlanID = &previous
		sub.PlanID = plan.ID
		sub.RevenueCatProductID = &newProduct
	})
}
