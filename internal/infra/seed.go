package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/config"
	"backoffice/internal/models/db_models"
	"backoffice/pkg/rbac"
	"backoffice/pkg/utils"
)

var defaultSettings = map[string]string{
	"site_title":       "App Starter",
	"site_description": "",
	"site_icon":        "/default-icon.png",
}

// Seed inserts the permission catalog, the default roles, settings and email
// templates, and the first admin user. Running it twice changes nothing.
func Seed(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zerolog.Logger) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms := make(map[string]db_models.Permission, len(rbac.Catalog))
		for _, entry := range rbac.Catalog {
			var p db_models.Permission
			if err := tx.Where(db_models.Permission{Name: entry.Name}).
				Attrs(db_models.Permission{Description: entry.Description}).
				FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed permission %s: %w", entry.Name, err)
			}
			perms[entry.Name] = p
		}

		adminRole, err := seedRole(tx, rbac.Admin, perms[rbac.Admin])
		if err != nil {
			return err
		}
		if _, err := seedRole(tx, rbac.Member, perms[rbac.ProfileRead]); err != nil {
			return err
		}

		for key, value := range defaultSettings {
			var setting db_models.Setting
			if err := tx.Where(db_models.Setting{Key: key}).
				Attrs(db_models.Setting{Value: value}).
				FirstOrCreate(&setting).Error; err != nil {
				return fmt.Errorf("seed setting %s: %w", key, err)
			}
		}

		tpl := db_models.EmailTemplate{}
		if err := tx.Where(db_models.EmailTemplate{Name: db_models.TemplatePasswordReset}).
			Attrs(db_models.EmailTemplate{
				Subject: "Reset your password",
				Content: "<p>Hello {{name}},</p><p>Use the link below to reset your password. It expires in one hour.</p><p><a href=\"{{resetUrl}}\">{{resetUrl}}</a></p>",
			}).
			FirstOrCreate(&tpl).Error; err != nil {
			return fmt.Errorf("seed email template: %w", err)
		}

		return seedAdminUser(tx, cfg, adminRole, logger)
	})
}

func seedRole(tx *gorm.DB, name string, perm db_models.Permission) (*db_models.Role, error) {
	role := db_models.Role{}
	if err := tx.Where(db_models.Role{Name: name}).
		Attrs(db_models.Role{IsDefault: true}).
		FirstOrCreate(&role).Error; err != nil {
		return nil, fmt.Errorf("seed role %s: %w", name, err)
	}

	link := db_models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&link).Error; err != nil {
		return nil, fmt.Errorf("seed role %s permission: %w", name, err)
	}
	return &role, nil
}

func seedAdminUser(tx *gorm.DB, cfg *config.Config, adminRole *db_models.Role, logger *zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	var count int64
	if err := tx.Model(&db_models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := db_models.User{
		Name:         "Admin",
		Email:        cfg.Admin.Email,
		PasswordHash: hash,
		Status:       db_models.UserStatusActive,
	}
	if err := tx.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := tx.Create(&db_models.UserRole{UserID: admin.ID, RoleID: adminRole.ID}).Error; err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}

	logger.Info().Str("email", admin.Email).Msg("seeded admin user")
	return nil
}
