package services

import (
	"context"

	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/rbac"
)

type PermissionServiceInterface interface {
	ListPermissions(ctx context.Context) ([]db_models.Permission, error)
	// EffectivePermissions merges the user's direct role permissions with the
	// role permissions granted by every active subscription's plan.
	EffectivePermissions(ctx context.Context, userID uuid.UUID) (rbac.Set, error)
}

type PermissionService struct {
	permRepo repositories.PermissionRepository
}

func NewPermissionService(permRepo repositories.PermissionRepository) PermissionServiceInterface {
	return &PermissionService{permRepo: permRepo}
}

func (p *PermissionService) ListPermissions(ctx context.Context) ([]db_models.Permission, error) {
	perms, err := p.permRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return perms, nil
}

func (p *PermissionService) EffectivePermissions(ctx context.Context, userID uuid.UUID) (rbac.Set, error) {
	direct, err := p.permRepo.DirectPermissionNames(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	fromPlans, err := p.permRepo.PlanPermissionNames(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	return rbac.Resolve(direct, fromPlans), nil
}
