package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// CheckoutParams describes one subscription checkout.
type CheckoutParams struct {
	PriceID       string
	CustomerEmail string
	Metadata      map[string]string
}

// StripeGateway is the slice of Stripe the billing flow uses.
type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*response_models.CheckoutSessionResponse, error)
	ParseWebhook(payload []byte, signature string) (stripe.Event, error)
}

type stripeGateway struct {
	api *client.API
	cfg StripeConfig
}

func NewStripeGateway(cfg StripeConfig) StripeGateway {
	return &stripeGateway{api: client.New(cfg.SecretKey, nil), cfg: cfg}
}

func (g *stripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*response_models.CheckoutSessionResponse, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(p.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &response_models.CheckoutSessionResponse{ID: sess.ID, URL: sess.URL}, nil
}

func (g *stripeGateway) ParseWebhook(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, g.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}

type PaymentServiceInterface interface {
	CreateCheckoutSession(ctx context.Context, userID, planID uuid.UUID) (*response_models.CheckoutSessionResponse, error)
	// HandleStripeWebhook verifies and applies one Stripe event.
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error
}

type PaymentService struct {
	gateway  StripeGateway
	planRepo repositories.IPlanRepository
	userRepo repositories.UserRepository
	subRepo  repositories.SubscriptionRepository
	metrics  *observability.Metrics
	logger   *zerolog.Logger
}

func NewPaymentService(
	gateway StripeGateway,
	planRepo repositories.IPlanRepository,
	userRepo repositories.UserRepository,
	subRepo repositories.SubscriptionRepository,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) PaymentServiceInterface {
	return &PaymentService{
		gateway:  gateway,
		planRepo: planRepo,
		userRepo: userRepo,
		subRepo:  subRepo,
		metrics:  metrics,
		logger:   logger,
	}
}

func (p *PaymentService) CreateCheckoutSession(ctx context.Context, userID, planID uuid.UUID) (*response_models.CheckoutSessionResponse, error) {
	plan, err := p.planRepo.GetPlanInfoById(ctx, planID)
	if err != nil {
		return nil, dbError(err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	if plan.PlanPriceID == "" {
		return nil, fmt.Errorf("%w: plan has no Stripe price", utils.ErrInvalidInput)
	}
	user, err := p.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	sess, err := p.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:       plan.PlanPriceID,
		CustomerEmail: user.Email,
		Metadata: map[string]string{
			"userId":      userID.String(),
			"planId":      planID.String(),
			"planPriceId": plan.PlanPriceID,
		},
	})
	if err != nil {
		p.logger.Error().Err(err).Str("plan_id", planID.String()).Msg("stripe checkout session failed")
		return nil, fmt.Errorf("%w: %v", utils.ErrPaymentProvider, err)
	}
	return sess, nil
}

func (p *PaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := p.gateway.ParseWebhook(payload, signature)
	if err != nil {
		p.logger.Warn().Err(err).Msg("stripe webhook signature rejected")
		return fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}
	p.metrics.Webhook("stripe", string(event.Type))

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("%w: malformed checkout session", utils.ErrInvalidInput)
		}
		return p.checkoutCompleted(ctx, &sess)
	default:
		p.logger.Info().Str("event_type", string(event.Type)).Msg("stripe event ignored")
		return nil
	}
}

// periodEnd is one billing interval after start. The session's own
// expires_at only bounds the checkout page, so it cannot end a subscription.
func periodEnd(interval db_models.BillingInterval, start int64) int64 {
	t := time.Unix(start, 0).UTC()
	if interval == db_models.IntervalYearly {
		return t.AddDate(1, 0, 0).Unix()
	}
	return t.AddDate(0, 1, 0).Unix()
}

// planForSession prefers the Stripe price id and falls back to the plan id
// stored in the session metadata.
func (p *PaymentService) planForSession(ctx context.Context, sess *stripe.CheckoutSession) (*db_models.Plan, error) {
	if priceID := sess.Metadata["planPriceId"]; priceID != "" {
		plan, err := p.planRepo.GetPlanByPriceID(ctx, priceID)
		if err != nil || plan != nil {
			return plan, err
		}
	}
	id, err := uuid.Parse(sess.Metadata["planId"])
	if err != nil {
		return nil, nil
	}
	return p.planRepo.GetPlanInfoById(ctx, id)
}

func (p *PaymentService) checkoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	log := p.logger.With().Str("session_id", sess.ID).Logger()

	userID, err := uuid.Parse(sess.Metadata["userId"])
	if err != nil {
		log.Error().Msg("checkout session without a valid userId, ignored")
		return nil
	}
	user, err := p.userRepo.FindByID(ctx, userID)
	if err != nil {
		return dbError(err)
	}
	if user == nil {
		log.Error().Str("user_id", userID.String()).Msg("checkout session for unknown user, ignored")
		return nil
	}

	if sess.Customer != nil && sess.Customer.ID != "" {
		if err := p.userRepo.UpdateFields(ctx, userID, map[string]interface{}{"stripe_customer_id": sess.Customer.ID}); err != nil {
			return dbError(err)
		}
	}

	plan, err := p.planForSession(ctx, sess)
	if err != nil {
		return dbError(err)
	}
	if plan == nil {
		log.Error().Msg("checkout session plan not found, ignored")
		return nil
	}

	providerID := sess.ID
	if sess.Subscription != nil && sess.Subscription.ID != "" {
		providerID = sess.Subscription.ID
	}
	start := sess.Created
	if start == 0 {
		start = time.Now().Unix()
	}
	end := periodEnd(plan.Interval, start)
	sub := &db_models.Subscription{
		UserID:           userID,
		PlanID:           plan.ID,
		Status:           db_models.SubStatusActive,
		StartDate:        start,
		EndDate:          end,
		NextBillingDate:  &end,
		SubscriptionID:   providerID,
		PurchasePlatform: db_models.PlatformWeb,
	}
	currency := strings.ToUpper(string(sess.Currency))
	if currency == "" {
		currency = "USD"
	}
	txn := &db_models.Transaction{
		UserID:        userID,
		TransactionID: sess.ID,
		Amount:        decimal.New(sess.AmountTotal, -2),
		Currency:      currency,
		Status:        db_models.TxnStatusCompleted,
		PaymentMethod: "card",
		Platform:      db_models.PlatformWeb,
		Description:   plan.Name + " - Stripe Checkout",
		Metadata:      mustJSON(map[string]string{"checkoutSessionId": sess.ID}),
	}

	if err := p.subRepo.CreateWithTransaction(ctx, sub, txn); err != nil {
		if isDuplicate(err) {
			log.Info().Msg("checkout session already processed")
			return nil
		}
		return dbError(err)
	}
	log.Info().Str("user_id", userID.String()).Str("plan_id", plan.ID.String()).Msg("stripe subscription created")
	return nil
}
