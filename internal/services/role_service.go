package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type RoleServiceInterface interface {
	ListRoles(ctx context.Context) ([]response_models.RoleSummary, error)
	GetRole(ctx context.Context, id uuid.UUID) (*response_models.RoleDetail, error)
	CreateRole(ctx context.Context, req request_models.RoleRequest) (*db_models.Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req request_models.RoleRequest) (*db_models.Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
}

type RoleService struct {
	roleRepo repositories.RoleRepository
	permRepo repositories.PermissionRepository
}

func NewRoleService(roleRepo repositories.RoleRepository, permRepo repositories.PermissionRepository) RoleServiceInterface {
	return &RoleService{roleRepo: roleRepo, permRepo: permRepo}
}

func (r *RoleService) ListRoles(ctx context.Context) ([]response_models.RoleSummary, error) {
	roles, err := r.roleRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	out := make([]response_models.RoleSummary, 0, len(roles))
	for _, role := range roles {
		out = append(out, response_models.RoleSummary{
			ID:              role.ID,
			Name:            role.Name,
			IsDefault:       role.IsDefault,
			PermissionCount: len(role.Permissions),
		})
	}
	return out, nil
}

func (r *RoleService) find(ctx context.Context, id uuid.UUID) (*db_models.Role, error) {
	role, err := r.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if role == nil {
		return nil, utils.ErrRoleNotFound
	}
	return role, nil
}

func (r *RoleService) GetRole(ctx context.Context, id uuid.UUID) (*response_models.RoleDetail, error) {
	role, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := r.permRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}

	ids := make([]uuid.UUID, 0, len(role.Permissions))
	for _, rp := range role.Permissions {
		ids = append(ids, rp.PermissionID)
	}
	return &response_models.RoleDetail{
		ID:             role.ID,
		Name:           role.Name,
		IsDefault:      role.IsDefault,
		PermissionIDs:  ids,
		AllPermissions: all,
	}, nil
}

func (r *RoleService) checkPermissions(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := r.permRepo.CountByIDs(ctx, ids)
	if err != nil {
		return dbError(err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("%w: unknown permission id", utils.ErrInvalidInput)
	}
	return nil
}

func (r *RoleService) CreateRole(ctx context.Context, req request_models.RoleRequest) (*db_models.Role, error) {
	existing, err := r.roleRepo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, dbError(err)
	}
	if existing != nil {
		return nil, utils.ErrRoleAlreadyExists
	}
	perms := uniqueIDs(req.Permissions)
	if err := r.checkPermissions(ctx, perms); err != nil {
		return nil, err
	}

	role := &db_models.Role{Name: req.Name}
	if err := r.roleRepo.Create(ctx, role, perms); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrRoleAlreadyExists
		}
		return nil, dbError(err)
	}
	return r.find(ctx, role.ID)
}

func (r *RoleService) UpdateRole(ctx context.Context, id uuid.UUID, req request_models.RoleRequest) (*db_models.Role, error) {
	role, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	perms := uniqueIDs(req.Permissions)
	if err := r.checkPermissions(ctx, perms); err != nil {
		return nil, err
	}

	role.Name = req.Name
	if err := r.roleRepo.Update(ctx, role, perms); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrRoleAlreadyExists
		}
		return nil, dbError(err)
	}
	return r.find(ctx, id)
}

func (r *RoleService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	role, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	if role.IsDefault {
		return utils.ErrCannotDeleteDefault
	}
	if err := r.roleRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	return nil
}
