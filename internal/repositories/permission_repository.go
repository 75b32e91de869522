package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"backoffice/internal/models/db_models"
)

// PermissionRepository also supplies the two permission sources the RBAC
// resolver merges.
type PermissionRepository interface {
	List(ctx context.Context) ([]db_models.Permission, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	DirectPermissionNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	PlanPermissionNames(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) List(ctx context.Context) ([]db_models.Permission, error) {
	var perms []db_models.Permission
	err := r.db.WithContext(ctx).Order("name ASC").Find(&perms).Error
	return perms, err
}

func (r *permissionRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Permission{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

const directPermissionsSQL = `
SELECT DISTINCT p.name
FROM permissions p
JOIN role_permissions rp ON rp.permission_id = p.id
JOIN user_roles ur ON ur.role_id = rp.role_id
WHERE ur.user_id = ?`

// Every PlanRole of every ACTIVE subscription contributes.
const planPermissionsSQL = `
SELECT DISTINCT p.name
FROM permissions p
JOIN role_permissions rp ON rp.permission_id = p.id
JOIN plan_roles pr ON pr.role_id = rp.role_id
JOIN subscriptions s ON s.plan_id = pr.plan_id
WHERE s.user_id = ? AND s.status = ?`

func (r *permissionRepository) DirectPermissionNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Raw(directPermissionsSQL, userID).Scan(&names).Error
	return names, err
}

func (r *permissionRepository) PlanPermissionNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Raw(planPermissionsSQL, userID, db_models.SubStatusActive).Scan(&names).Error
	return names, err
}
