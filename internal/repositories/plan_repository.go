package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type IPlanRepository interface {
	GetPlanInfoById(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error)
	GetPlanByPriceID(ctx context.Context, priceID string) (*db_models.Plan, error)
	GetPlanByRevenueCatProduct(ctx context.Context, productID string) (*db_models.Plan, error)
	GetAllPlans(ctx context.Context, activeOnly bool) ([]db_models.Plan, error)
	CreatePlan(ctx context.Context, plan *db_models.Plan, roleIDs []uuid.UUID) error
	ReplacePlan(ctx context.Context, plan *db_models.Plan, roleIDs []uuid.UUID) error
	DeletePlan(ctx context.Context, planID uuid.UUID) error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

func withPlanRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Features").Preload("PlanRoles.Role")
}

func (p PlanRepository) GetPlanInfoById(ctx context.Context, planID uuid.UUID) (*db_models.Plan, error) {
	return firstOrNil[db_models.Plan](withPlanRelations(p.db.WithContext(ctx)), "id = ?", planID)
}

func (p PlanRepository) GetPlanByPriceID(ctx context.Context, priceID string) (*db_models.Plan, error) {
	return firstOrNil[db_models.Plan](p.db.WithContext(ctx), "plan_price_id = ?", priceID)
}

func (p PlanRepository) GetPlanByRevenueCatProduct(ctx context.Context, productID string) (*db_models.Plan, error) {
	return firstOrNil[db_models.Plan](p.db.WithContext(ctx), "revenue_cat_product_id = ?", productID)
}

func (p PlanRepository) GetAllPlans(ctx context.Context, activeOnly bool) ([]db_models.Plan, error) {
	var plans []db_models.Plan
	q := withPlanRelations(p.db.WithContext(ctx))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("price ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func insertPlanChildren(tx *gorm.DB, plan *db_models.Plan, roleIDs []uuid.UUID) error {
	if len(plan.Features) > 0 {
		for i := range plan.Features {
			plan.Features[i].PlanID = plan.ID
		}
		if err := tx.Create(&plan.Features).Error; err != nil {
			return err
		}
	}
	if len(roleIDs) == 0 {
		return nil
	}
	links := make([]db_models.PlanRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		links = append(links, db_models.PlanRole{PlanID: plan.ID, RoleID: id})
	}
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (p PlanRepository) CreatePlan(ctx context.Context, plan *db_models.Plan, roleIDs []uuid.UUID) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(plan).Error; err != nil {
			return err
		}
		return insertPlanChildren(tx, plan, roleIDs)
	})
}

// ReplacePlan saves the plan columns and swaps its features and roles.
func (p PlanRepository) ReplacePlan(ctx context.Context, plan *db_models.Plan, roleIDs []uuid.UUID) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(plan).Error; err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&db_models.PlanFeature{}).Error; err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&db_models.PlanRole{}).Error; err != nil {
			return err
		}
		return insertPlanChildren(tx, plan, roleIDs)
	})
}

func (p PlanRepository) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", planID).Delete(&db_models.PlanFeature{}).Error; err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", planID).Delete(&db_models.PlanRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db_models.Plan{}, "id = ?", planID).Error
	})
}
