package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type PlanServiceInterface interface {
	GetPlans(ctx context.Context, activeOnly bool) ([]db_models.Plan, error)
	GetPlanInfoById(ctx context.Context, planId uuid.UUID) (*db_models.Plan, error)
	CreatePlan(ctx context.Context, req request_models.PlanRequest) (*db_models.Plan, error)
	UpdatePlan(ctx context.Context, planId uuid.UUID, req request_models.PlanRequest) (*db_models.Plan, error)
	DeletePlan(ctx context.Context, planId uuid.UUID) error
}

func NewPlanService(planRepo repositories.IPlanRepository, roleRepo repositories.RoleRepository) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
		roleRepo: roleRepo,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
	roleRepo repositories.RoleRepository
}

func (p *PlanService) GetPlans(ctx context.Context, activeOnly bool) ([]db_models.Plan, error) {
	plans, err := p.planRepo.GetAllPlans(ctx, activeOnly)
	if err != nil {
		return nil, dbError(err)
	}
	return plans, nil
}

func (p *PlanService) GetPlanInfoById(ctx context.Context, planId uuid.UUID) (*db_models.Plan, error) {
	plan, err := p.planRepo.GetPlanInfoById(ctx, planId)
	if err != nil {
		return nil, dbError(err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	return plan, nil
}

// fill copies the request onto plan after validating interval, price and roles.
func (p *PlanService) fill(ctx context.Context, plan *db_models.Plan, req request_models.PlanRequest) ([]uuid.UUID, error) {
	interval := db_models.BillingInterval(strings.ToUpper(req.Interval))
	if !interval.Valid() {
		return nil, utils.ErrInvalidInterval
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", utils.ErrInvalidInput)
	}

	roleIDs := uniqueIDs(req.PlanRole)
	if len(roleIDs) > 0 {
		n, err := p.roleRepo.CountByIDs(ctx, roleIDs)
		if err != nil {
			return nil, dbError(err)
		}
		if n != int64(len(roleIDs)) {
			return nil, fmt.Errorf("%w: unknown role id", utils.ErrInvalidInput)
		}
	}

	plan.Name = req.Name
	plan.Description = req.Description
	plan.Price = req.Price
	plan.PlanPriceID = req.PlanPriceID
	plan.Interval = interval
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
	plan.RevenueCatProductID = nil
	if req.RevenueCatProductID != nil && *req.RevenueCatProductID != "" {
		id := *req.RevenueCatProductID
		plan.RevenueCatProductID = &id
	}

	plan.Features = make([]db_models.PlanFeature, 0, len(req.Features))
	for _, f := range req.Features {
		plan.Features = append(plan.Features, db_models.PlanFeature{Name: f.Name, Icon: f.Icon})
	}
	plan.PlanRoles = nil
	return roleIDs, nil
}

func (p *PlanService) CreatePlan(ctx context.Context, req request_models.PlanRequest) (*db_models.Plan, error) {
	plan := &db_models.Plan{IsActive: true}
	roleIDs, err := p.fill(ctx, plan, req)
	if err != nil {
		return nil, err
	}
	if err := p.planRepo.CreatePlan(ctx, plan, roleIDs); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: revenueCatProductId already used by another plan", utils.ErrInvalidInput)
		}
		return nil, dbError(err)
	}
	return p.GetPlanInfoById(ctx, plan.ID)
}

func (p *PlanService) UpdatePlan(ctx context.Context, planId uuid.UUID, req request_models.PlanRequest) (*db_models.Plan, error) {
	plan, err := p.GetPlanInfoById(ctx, planId)
	if err != nil {
		return nil, err
	}
	roleIDs, err := p.fill(ctx, plan, req)
	if err != nil {
		return nil, err
	}
	if err := p.planRepo.ReplacePlan(ctx, plan, roleIDs); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("%w: revenueCatProductId already used by another plan", utils.ErrInvalidInput)
		}
		return nil, dbError(err)
	}
	return p.GetPlanInfoById(ctx, planId)
}

func (p *PlanService) DeletePlan(ctx context.Context, planId uuid.UUID) error {
	if _, err := p.GetPlanInfoById(ctx, planId); err != nil {
		return err
	}
	if err := p.planRepo.DeletePlan(ctx, planId); err != nil {
		if isForeignKey(err) {
			return utils.ErrResourceInUse
		}
		return dbError(err)
	}
	return nil
}
