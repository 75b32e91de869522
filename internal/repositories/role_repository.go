package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type RoleRepository interface {
	List(ctx context.Context) ([]db_models.Role, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Role, error)
	FindByName(ctx context.Context, name string) (*db_models.Role, error)
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	Create(ctx context.Context, role *db_models.Role, permissionIDs []uuid.UUID) error
	Update(ctx context.Context, role *db_models.Role, permissionIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func insertRolePermissions(tx *gorm.DB, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	links := make([]db_models.RolePermission, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		links = append(links, db_models.RolePermission{RoleID: roleID, PermissionID: id})
	}
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (r *roleRepository) List(ctx context.Context) ([]db_models.Role, error) {
	var roles []db_models.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Role, error) {
	return firstOrNil[db_models.Role](r.db.WithContext(ctx).Preload("Permissions.Permission"), "id = ?", id)
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*db_models.Role, error) {
	return firstOrNil[db_models.Role](r.db.WithContext(ctx), "name = ?", name)
}

func (r *roleRepository) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.Role{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func (r *roleRepository) Create(ctx context.Context, role *db_models.Role, permissionIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(role).Error; err != nil {
			return err
		}
		return insertRolePermissions(tx, role.ID, permissionIDs)
	})
}

// Update drops the role's permission links, renames it and inserts the new
// set, all in one transaction.
func (r *roleRepository) Update(ctx context.Context, role *db_models.Role, permissionIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&db_models.RolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&db_models.Role{}).Where("id = ?", role.ID).Update("name", role.Name).Error; err != nil {
			return err
		}
		return insertRolePermissions(tx, role.ID, permissionIDs)
	})
}

func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&db_models.RolePermission{}, &db_models.UserRole{}, &db_models.PlanRole{}} {
			if err := tx.Where("role_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&db_models.Role{}, "id = ?", id).Error
	})
}
