package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type SubscriptionServiceInterface interface {
	ListSubscriptions(ctx context.Context, page, limit int) (*response_models.Page[db_models.Subscription], error)
	GetSubscription(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	CreateSubscription(ctx context.Context, req request_models.SubscriptionRequest) (*db_models.Subscription, error)
	UpdateSubscription(ctx context.Context, id uuid.UUID, req request_models.SubscriptionRequest) (*db_models.Subscription, error)
	DeleteSubscription(ctx context.Context, id uuid.UUID) error
	CancelSubscription(ctx context.Context, id uuid.UUID, reason string) (*db_models.Subscription, error)

	// SyncRevenueCat mirrors the client's active entitlements onto the user's
	// mobile subscriptions.
	SyncRevenueCat(ctx context.Context, userID uuid.UUID, req request_models.RevenueCatSyncRequest) ([]db_models.Subscription, error)
	MyMobileSubscription(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error)

	ExpireOverdue(ctx context.Context) (int64, error)
}

type SubscriptionService struct {
	subRepo  repositories.SubscriptionRepository
	planRepo repositories.IPlanRepository
	userRepo repositories.UserRepository
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewSubscriptionService(
	subRepo repositories.SubscriptionRepository,
	planRepo repositories.IPlanRepository,
	userRepo repositories.UserRepository,
	logger *zerolog.Logger,
) SubscriptionServiceInterface {
	return &SubscriptionService{
		subRepo:  subRepo,
		planRepo: planRepo,
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SubscriptionService) ListSubscriptions(ctx context.Context, page, limit int) (*response_models.Page[db_models.Subscription], error) {
	subs, total, err := s.subRepo.List(ctx, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.Page[db_models.Subscription]{
		Data:       subs,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	return sub, nil
}

// applyRequest validates the owner, plan and status of req and copies it
// onto sub.
func (s *SubscriptionService) applyRequest(ctx context.Context, sub *db_models.Subscription, req request_models.SubscriptionRequest) error {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return dbError(err)
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	plan, err := s.planRepo.GetPlanInfoById(ctx, req.PlanID)
	if err != nil {
		return dbError(err)
	}
	if plan == nil {
		return utils.ErrPlanNotFound
	}

	status := db_models.SubStatusActive
	if req.Status != "" {
		status = db_models.SubscriptionStatus(req.Status)
		if !status.Valid() {
			return utils.ErrInvalidStatus
		}
	}
	platform := req.PurchasePlatform
	switch platform {
	case "":
		platform = db_models.PlatformWeb
	case db_models.PlatformWeb, db_models.PlatformMobile:
	default:
		return fmt.Errorf("%w: purchasePlatform must be web or mobile", utils.ErrInvalidInput)
	}

	sub.UserID = req.UserID
	sub.PlanID = req.PlanID
	sub.StartDate = req.StartDate
	sub.EndDate = req.EndDate
	sub.Status = status
	sub.SubscriptionID = req.SubscriptionID
	sub.PurchasePlatform = platform
	sub.User = nil
	sub.Plan = nil
	return nil
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, req request_models.SubscriptionRequest) (*db_models.Subscription, error) {
	sub := &db_models.Subscription{}
	if err := s.applyRequest(ctx, sub, req); err != nil {
		return nil, err
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, dbError(err)
	}
	return s.GetSubscription(ctx, sub.ID)
}

func (s *SubscriptionService) UpdateSubscription(ctx context.Context, id uuid.UUID, req request_models.SubscriptionRequest) (*db_models.Subscription, error) {
	sub, err := s.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyRequest(ctx, sub, req); err != nil {
		return nil, err
	}
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, dbError(err)
	}
	return s.GetSubscription(ctx, id)
}

func (s *SubscriptionService) DeleteSubscription(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSubscription(ctx, id); err != nil {
		return err
	}
	if err := s.subRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	return nil
}

func (s *SubscriptionService) CancelSubscription(ctx context.Context, id uuid.UUID, reason string) (*db_models.Subscription, error) {
	sub, err := s.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != db_models.SubStatusActive {
		return nil, utils.ErrSubscriptionNotActive
	}

	sub.Status = db_models.SubStatusCanceled
	sub.CanceledAt = utils.UnixPtr(s.now())
	if reason != "" {
		sub.CancelReason = &reason
	}
	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, dbError(err)
	}
	return sub, nil
}

// parseRevenueCatDate reads the ISO timestamps RevenueCat clients send.
func parseRevenueCatDate(s string) int64 {
	if s == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}

func (s *SubscriptionService) SyncRevenueCat(ctx context.Context, userID uuid.UUID, req request_models.RevenueCatSyncRequest) ([]db_models.Subscription, error) {
	synced := make([]db_models.Subscription, 0, len(req.CustomerInfo.Entitlements.Active))
	customerID := userID.String()

	for entitlementID, ent := range req.CustomerInfo.Entitlements.Active {
		productID := ent.ProductIdentifier
		if productID == "" {
			continue
		}
		plan, err := s.planRepo.GetPlanByRevenueCatProduct(ctx, productID)
		if err != nil {
			return nil, dbError(err)
		}
		if plan == nil {
			s.logger.Warn().Str("product_id", productID).Msg("no plan for RevenueCat product, entitlement skipped")
			continue
		}

		status := db_models.SubStatusExpired
		if ent.IsActive {
			status = db_models.SubStatusActive
		}
		end := parseRevenueCatDate(ent.ExpirationDate)

		sub, err := s.subRepo.FindLatestByUserProduct(ctx, userID, productID)
		if err != nil {
			return nil, dbError(err)
		}
		if sub == nil {
			start := parseRevenueCatDate(ent.OriginalPurchaseDate)
			if start == 0 {
				start = s.now().Unix()
			}
			sub = &db_models.Subscription{
				UserID:           userID,
				SubscriptionID:   fmt.Sprintf("rc_%s_%s", customerID, productID),
				StartDate:        start,
				PurchasePlatform: db_models.PlatformMobile,
			}
		}

		sub.PlanID = plan.ID
		sub.Status = status
		if end > 0 {
			sub.EndDate = end
			sub.NextBillingDate = &end
		}
		if sub.EndDate == 0 {
			sub.EndDate = sub.StartDate
		}
		sub.RevenueCatCustomerID = &customerID
		sub.RevenueCatProductID = &productID
		sub.RevenueCatEntitlement = &entitlementID
		if ent.Store != "" {
			sub.Store = &ent.Store
		}
		sub.Plan = nil

		if sub.ID == uuid.Nil {
			err = s.subRepo.Create(ctx, sub)
		} else {
			err = s.subRepo.Save(ctx, sub)
		}
		if err != nil {
			return nil, dbError(err)
		}
		synced = append(synced, *sub)
	}
	return synced, nil
}

func (s *SubscriptionService) MyMobileSubscription(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error) {
	sub, err := s.subRepo.FindLatestActiveMobile(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (s *SubscriptionService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.subRepo.ExpireOverdue(ctx, s.now().Unix())
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}
