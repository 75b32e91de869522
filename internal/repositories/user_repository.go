package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

type UserRepository interface {
	Create(ctx context.Context, user *db_models.User, roleIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByProviderOrEmail(ctx context.Context, column, providerID, email string) (*db_models.User, error)
	FindByResetToken(ctx context.Context, token string) (*db_models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.User, error)
	List(ctx context.Context) ([]db_models.User, error)
	Save(ctx context.Context, user *db_models.User, roleIDs []uuid.UUID, replaceRoles bool) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	UpdateFieldsBulk(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAccount(ctx context.Context, id uuid.UUID, now int64) error
	LiftExpiredSuspensions(ctx context.Context, now int64) (int64, error)

	AddLoginHistory(ctx context.Context, entry *db_models.LoginHistory) error
	ListLoginHistory(ctx context.Context, userID uuid.UUID, page Page) ([]db_models.LoginHistory, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func insertUserRoles(tx *gorm.DB, userID uuid.UUID, roleIDs []uuid.UUID) error {
	if len(roleIDs) == 0 {
		return nil
	}
	links := make([]db_models.UserRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		links = append(links, db_models.UserRole{UserID: userID, RoleID: id})
	}
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (r *userRepository) Create(ctx context.Context, user *db_models.User, roleIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		return insertUserRoles(tx, user.ID, roleIDs)
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return firstOrNil[db_models.User](r.db.WithContext(ctx).Preload("Roles.Role"), "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	return firstOrNil[db_models.User](r.db.WithContext(ctx).Preload("Roles.Role"), "email = ?", email)
}

// FindByProviderOrEmail matches a social provider id column (google_id or
// apple_id) or, when email is set, the email address.
func (r *userRepository) FindByProviderOrEmail(ctx context.Context, column, providerID, email string) (*db_models.User, error) {
	q := r.db.WithContext(ctx).Where(column+" = ?", providerID)
	if email != "" {
		q = q.Or("email = ?", email)
	}
	return firstOrNil[db_models.User](q)
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*db_models.User, error) {
	return firstOrNil[db_models.User](r.db.WithContext(ctx), "reset_token = ?", token)
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]db_models.User, error) {
	var users []db_models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepository) List(ctx context.Context) ([]db_models.User, error) {
	var users []db_models.User
	err := r.db.WithContext(ctx).
		Preload("Roles.Role").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// Save writes every column of user. With replaceRoles the role links are
// swapped for roleIDs in the same transaction.
func (r *userRepository) Save(ctx context.Context, user *db_models.User, roleIDs []uuid.UUID, replaceRoles bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		if !replaceRoles {
			return nil
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db_models.UserRole{}).Error; err != nil {
			return err
		}
		return insertUserRoles(tx, user.ID, roleIDs)
	})
}

func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&db_models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *userRepository) UpdateFieldsBulk(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&db_models.User{}).Where("id IN ?", ids).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&db_models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db_models.User{}, "id = ?", id).Error
	})
}

// DeleteAccount cancels the user's active subscriptions, then removes their
// devices, notifications, role links and finally the user row.
func (r *userRepository) DeleteAccount(ctx context.Context, id uuid.UUID, now int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db_models.Subscription{}).
			Where("user_id = ? AND status = ?", id, db_models.SubStatusActive).
			Updates(map[string]interface{}{
				"status":        db_models.SubStatusCanceled,
				"canceled_at":   now,
				"cancel_reason": "Account deleted",
			}).Error; err != nil {
			return err
		}

		deviceIDs := tx.Model(&db_models.UserDevice{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("user_device_id IN (?)", deviceIDs).Delete(&db_models.DeviceBan{}).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{&db_models.UserDevice{}, &db_models.Notification{}, &db_models.UserRole{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&db_models.User{}, "id = ?", id).Error
	})
}

func (r *userRepository) LiftExpiredSuspensions(ctx context.Context, now int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&db_models.User{}).
		Where("status = ? AND suspended_until IS NOT NULL AND suspended_until <= ?", db_models.UserStatusSuspended, now).
		Updates(map[string]interface{}{
			"status":          db_models.UserStatusActive,
			"suspended_until": nil,
			"status_reason":   "",
		})
	return res.RowsAffected, res.Error
}

func (r *userRepository) AddLoginHistory(ctx context.Context, entry *db_models.LoginHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *userRepository) ListLoginHistory(ctx context.Context, userID uuid.UUID, page Page) ([]db_models.LoginHistory, int64, error) {
	var (
		rows  []db_models.LoginHistory
		total int64
	)
	q := r.db.WithContext(ctx).Model(&db_models.LoginHistory{}).
		Where("user_id = ?", userID).
		Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := page.apply(q.Order("created_at DESC")).Find(&rows).Error
	return rows, total, err
}
