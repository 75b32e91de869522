package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"backoffice/internal/models/db_models"
)

// key is a keyword in some dialects, so let gorm quote it.
var byKey = clause.OrderByColumn{Column: clause.Column{Name: "key"}}

type AppVersionRepository interface {
	List(ctx context.Context, platform string) ([]db_models.AppVersion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.AppVersion, error)
	Latest(ctx context.Context, platform string) (*db_models.AppVersion, error)
	Create(ctx context.Context, v *db_models.AppVersion) error
	Save(ctx context.Context, v *db_models.AppVersion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type appVersionRepository struct {
	db *gorm.DB
}

func NewAppVersionRepository(db *gorm.DB) AppVersionRepository {
	return &appVersionRepository{db: db}
}

func (r *appVersionRepository) List(ctx context.Context, platform string) ([]db_models.AppVersion, error) {
	var rows []db_models.AppVersion
	q := r.db.WithContext(ctx)
	if platform != "" {
		q = q.Where("platform = ?", platform)
	}
	err := q.Order("build_number DESC").Find(&rows).Error
	return rows, err
}

func (r *appVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.AppVersion, error) {
	return firstOrNil[db_models.AppVersion](r.db.WithContext(ctx), "id = ?", id)
}

// Latest is the active version with the highest build number.
func (r *appVersionRepository) Latest(ctx context.Context, platform string) (*db_models.AppVersion, error) {
	return firstOrNil[db_models.AppVersion](r.db.WithContext(ctx).
		Where("platform = ? AND is_active = ?", platform, true).
		Order("build_number DESC"))
}

func (r *appVersionRepository) Create(ctx context.Context, v *db_models.AppVersion) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *appVersionRepository) Save(ctx context.Context, v *db_models.AppVersion) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *appVersionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.AppVersion{}, "id = ?", id).Error
}

type FeatureFlagRepository interface {
	List(ctx context.Context) ([]db_models.FeatureFlag, error)
	ListForPlatform(ctx context.Context, platform string) ([]db_models.FeatureFlag, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.FeatureFlag, error)
	Create(ctx context.Context, f *db_models.FeatureFlag) error
	Save(ctx context.Context, f *db_models.FeatureFlag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type featureFlagRepository struct {
	db *gorm.DB
}

func NewFeatureFlagRepository(db *gorm.DB) FeatureFlagRepository {
	return &featureFlagRepository{db: db}
}

func (r *featureFlagRepository) List(ctx context.Context) ([]db_models.FeatureFlag, error) {
	var rows []db_models.FeatureFlag
	err := r.db.WithContext(ctx).Order(byKey).Find(&rows).Error
	return rows, err
}

// ListForPlatform returns flags scoped to platform or to every platform.
func (r *featureFlagRepository) ListForPlatform(ctx context.Context, platform string) ([]db_models.FeatureFlag, error) {
	var rows []db_models.FeatureFlag
	err := r.db.WithContext(ctx).
		Where("platform IN ?", []string{platform, db_models.PlatformAll}).
		Order(byKey).
		Find(&rows).Error
	return rows, err
}

func (r *featureFlagRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.FeatureFlag, error) {
	return firstOrNil[db_models.FeatureFlag](r.db.WithContext(ctx), "id = ?", id)
}

func (r *featureFlagRepository) Create(ctx context.Context, f *db_models.FeatureFlag) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *featureFlagRepository) Save(ctx context.Context, f *db_models.FeatureFlag) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *featureFlagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.FeatureFlag{}, "id = ?", id).Error
}

type RemoteConfigRepository interface {
	List(ctx context.Context) ([]db_models.RemoteConfig, error)
	ListActiveForPlatform(ctx context.Context, platform string) ([]db_models.RemoteConfig, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.RemoteConfig, error)
	Create(ctx context.Context, c *db_models.RemoteConfig) error
	Save(ctx context.Context, c *db_models.RemoteConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type remoteConfigRepository struct {
	db *gorm.DB
}

func NewRemoteConfigRepository(db *gorm.DB) RemoteConfigRepository {
	return &remoteConfigRepository{db: db}
}

func (r *remoteConfigRepository) List(ctx context.Context) ([]db_models.RemoteConfig, error) {
	var rows []db_models.RemoteConfig
	err := r.db.WithContext(ctx).Order(byKey).Find(&rows).Error
	return rows, err
}

func (r *remoteConfigRepository) ListActiveForPlatform(ctx context.Context, platform string) ([]db_models.RemoteConfig, error) {
	var rows []db_models.RemoteConfig
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND platform IN ?", true, []string{platform, db_models.PlatformAll}).
		Order(byKey).
		Find(&rows).Error
	return rows, err
}

func (r *remoteConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.RemoteConfig, error) {
	return firstOrNil[db_models.RemoteConfig](r.db.WithContext(ctx), "id = ?", id)
}

func (r *remoteConfigRepository) Create(ctx context.Context, c *db_models.RemoteConfig) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *remoteConfigRepository) Save(ctx context.Context, c *db_models.RemoteConfig) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *remoteConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&db_models.RemoteConfig{}, "id = ?", id).Error
}
