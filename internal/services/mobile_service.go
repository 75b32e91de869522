package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	mem "backoffice/pkg/memcache"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

type AppVersionServiceInterface interface {
	ListVersions(ctx context.Context, platform string) ([]db_models.AppVersion, error)
	GetVersion(ctx context.Context, id uuid.UUID) (*db_models.AppVersion, error)
	CreateVersion(ctx context.Context, req request_models.AppVersionRequest, actor Actor) (*db_models.AppVersion, error)
	UpdateVersion(ctx context.Context, id uuid.UUID, req request_models.AppVersionRequest, actor Actor) (*db_models.AppVersion, error)
	DeleteVersion(ctx context.Context, id uuid.UUID, actor Actor) error
	Latest(ctx context.Context, platform string) (*db_models.AppVersion, error)
	CheckUpdate(ctx context.Context, query request_models.CheckUpdateQuery) (*response_models.CheckUpdateResponse, error)
}

type AppVersionService struct {
	versionRepo repositories.AppVersionRepository
	audit       AuditServiceInterface
	logger      *zerolog.Logger
}

func NewAppVersionService(versionRepo repositories.AppVersionRepository, audit AuditServiceInterface, logger *zerolog.Logger) AppVersionServiceInterface {
	return &AppVersionService{versionRepo: versionRepo, audit: audit, logger: logger}
}

func (a *AppVersionService) record(ctx context.Context, actor Actor, action string, id uuid.UUID, metadata map[string]interface{}) {
	if err := a.audit.Record(ctx, actor.entry(action, "APP_VERSION", id.String(), metadata)); err != nil {
		a.logger.Error().Err(err).Str("action", action).Msg("app version audit not recorded")
	}
}

func (a *AppVersionService) ListVersions(ctx context.Context, platform string) ([]db_models.AppVersion, error) {
	rows, err := a.versionRepo.List(ctx, platform)
	if err != nil {
		return nil, dbError(err)
	}
	return rows, nil
}

func (a *AppVersionService) GetVersion(ctx context.Context, id uuid.UUID) (*db_models.AppVersion, error) {
	v, err := a.versionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if v == nil {
		return nil, utils.ErrAppVersionNotFound
	}
	return v, nil
}

func applyVersion(v *db_models.AppVersion, req request_models.AppVersionRequest) {
	v.Version = req.Version
	v.BuildNumber = req.BuildNumber
	v.Platform = strings.ToLower(req.Platform)
	v.ReleaseNotes = req.ReleaseNotes
	v.ForceUpdate = req.ForceUpdate
	v.MinSupportedBuild = req.MinSupportedBuild
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}
}

func (a *AppVersionService) CreateVersion(ctx context.Context, req request_models.AppVersionRequest, actor Actor) (*db_models.AppVersion, error) {
	v := &db_models.AppVersion{IsActive: true}
	applyVersion(v, req)
	if err := a.versionRepo.Create(ctx, v); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrAppVersionExists
		}
		return nil, dbError(err)
	}
	a.record(ctx, actor, "APP_VERSION_CREATE", v.ID, map[string]interface{}{
		"version":  v.Version,
		"platform": v.Platform,
	})
	return v, nil
}

func (a *AppVersionService) UpdateVersion(ctx context.Context, id uuid.UUID, req request_models.AppVersionRequest, actor Actor) (*db_models.AppVersion, error) {
	v, err := a.GetVersion(ctx, id)
	if err != nil {
		return nil, err
	}
	applyVersion(v, req)
	if err := a.versionRepo.Save(ctx, v); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrAppVersionExists
		}
		return nil, dbError(err)
	}
	a.record(ctx, actor, "APP_VERSION_UPDATE", v.ID, map[string]interface{}{
		"version":  v.Version,
		"platform": v.Platform,
	})
	return v, nil
}

func (a *AppVersionService) DeleteVersion(ctx context.Context, id uuid.UUID, actor Actor) error {
	if _, err := a.GetVersion(ctx, id); err != nil {
		return err
	}
	if err := a.versionRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	a.record(ctx, actor, "APP_VERSION_DELETE", id, nil)
	return nil
}

func (a *AppVersionService) Latest(ctx context.Context, platform string) (*db_models.AppVersion, error) {
	v, err := a.versionRepo.Latest(ctx, strings.ToLower(platform))
	if err != nil {
		return nil, dbError(err)
	}
	if v == nil {
		return nil, utils.ErrAppVersionNotFound
	}
	return v, nil
}

// CheckUpdate compares the caller's build against the latest active one. A
// platform with no active version reports no update.
func (a *AppVersionService) CheckUpdate(ctx context.Context, query request_models.CheckUpdateQuery) (*response_models.CheckUpdateResponse, error) {
	latest, err := a.versionRepo.Latest(ctx, strings.ToLower(query.Platform))
	if err != nil {
		return nil, dbError(err)
	}
	if latest == nil {
		return &response_models.CheckUpdateResponse{}, nil
	}

	available := query.CurrentBuildNumber < latest.BuildNumber
	force := available && (latest.ForceUpdate || query.CurrentBuildNumber < latest.MinSupportedBuild)
	return &response_models.CheckUpdateResponse{
		UpdateAvailable:   available,
		ForceUpdate:       force,
		LatestVersion:     latest.Version,
		LatestBuildNumber: latest.BuildNumber,
		ReleaseNotes:      latest.ReleaseNotes,
	}, nil
}

type FeatureFlagServiceInterface interface {
	ListFlags(ctx context.Context) ([]db_models.FeatureFlag, error)
	GetFlag(ctx context.Context, id uuid.UUID) (*db_models.FeatureFlag, error)
	CreateFlag(ctx context.Context, req request_models.FeatureFlagRequest, actor Actor) (*db_models.FeatureFlag, error)
	UpdateFlag(ctx context.Context, id uuid.UUID, req request_models.FeatureFlagRequest, actor Actor) (*db_models.FeatureFlag, error)
	ToggleFlag(ctx context.Context, id uuid.UUID, actor Actor) (*db_models.FeatureFlag, error)
	DeleteFlag(ctx context.Context, id uuid.UUID, actor Actor) error
	// ClientFlags is the {key: {enabled, metadata}} view for one platform.
	ClientFlags(ctx context.Context, platform string) (map[string]interface{}, error)
}

type FeatureFlagService struct {
	flagRepo repositories.FeatureFlagRepository
	cache    mem.ViewCache
	audit    AuditServiceInterface
	metrics  *observability.Metrics
	logger   *zerolog.Logger
}

func NewFeatureFlagService(
	flagRepo repositories.FeatureFlagRepository,
	cache mem.ViewCache,
	audit AuditServiceInterface,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) FeatureFlagServiceInterface {
	return &FeatureFlagService{flagRepo: flagRepo, cache: cache, audit: audit, metrics: metrics, logger: logger}
}

func clientPlatform(platform string) string {
	if platform == "" {
		return db_models.PlatformAll
	}
	return strings.ToLower(platform)
}

func (f *FeatureFlagService) written(ctx context.Context, actor Actor, action string, id uuid.UUID, metadata map[string]interface{}) {
	f.cache.Purge()
	if err := f.audit.Record(ctx, actor.entry(action, "FEATURE_FLAG", id.String(), metadata)); err != nil {
		f.logger.Error().Err(err).Str("action", action).Msg("feature flag audit not recorded")
	}
}

func (f *FeatureFlagService) ListFlags(ctx context.Context) ([]db_models.FeatureFlag, error) {
	rows, err := f.flagRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return rows, nil
}

func (f *FeatureFlagService) GetFlag(ctx context.Context, id uuid.UUID) (*db_models.FeatureFlag, error) {
	flag, err := f.flagRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if flag == nil {
		return nil, utils.ErrFeatureFlagNotFound
	}
	return flag, nil
}

func applyFlag(flag *db_models.FeatureFlag, req request_models.FeatureFlagRequest) error {
	metadata, err := jsonObject(req.Metadata)
	if err != nil {
		return err
	}
	flag.Key = req.Key
	flag.Name = req.Name
	flag.Description = req.Description
	flag.Enabled = req.Enabled
	flag.Platform = clientPlatform(req.Platform)
	flag.Metadata = metadata
	return nil
}

func (f *FeatureFlagService) CreateFlag(ctx context.Context, req request_models.FeatureFlagRequest, actor Actor) (*db_models.FeatureFlag, error) {
	flag := &db_models.FeatureFlag{}
	if err := applyFlag(flag, req); err != nil {
		return nil, err
	}
	if err := f.flagRepo.Create(ctx, flag); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrFeatureFlagExists
		}
		return nil, dbError(err)
	}
	f.written(ctx, actor, "FEATURE_FLAG_CREATE", flag.ID, map[string]interface{}{"key": flag.Key, "enabled": flag.Enabled})
	return flag, nil
}

func (f *FeatureFlagService) UpdateFlag(ctx context.Context, id uuid.UUID, req request_models.FeatureFlagRequest, actor Actor) (*db_models.FeatureFlag, error) {
	flag, err := f.GetFlag(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyFlag(flag, req); err != nil {
		return nil, err
	}
	if err := f.flagRepo.Save(ctx, flag); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrFeatureFlagExists
		}
		return nil, dbError(err)
	}
	f.written(ctx, actor, "FEATURE_FLAG_UPDATE", flag.ID, map[string]interface{}{"key": flag.Key, "enabled": flag.Enabled})
	return flag, nil
}

func (f *FeatureFlagService) ToggleFlag(ctx context.Context, id uuid.UUID, actor Actor) (*db_models.FeatureFlag, error) {
	flag, err := f.GetFlag(ctx, id)
	if err != nil {
		return nil, err
	}
	flag.Enabled = !flag.Enabled
	if err := f.flagRepo.Save(ctx, flag); err != nil {
		return nil, dbError(err)
	}
	f.written(ctx, actor, "FEATURE_FLAG_TOGGLE", flag.ID, map[string]interface{}{"key": flag.Key, "enabled": flag.Enabled})
	return flag, nil
}

func (f *FeatureFlagService) DeleteFlag(ctx context.Context, id uuid.UUID, actor Actor) error {
	flag, err := f.GetFlag(ctx, id)
	if err != nil {
		return err
	}
	if err := f.flagRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	f.written(ctx, actor, "FEATURE_FLAG_DELETE", id, map[string]interface{}{"key": flag.Key})
	return nil
}

func (f *FeatureFlagService) ClientFlags(ctx context.Context, platform string) (map[string]interface{}, error) {
	platform = clientPlatform(platform)
	cacheKey := "flags:" + platform
	if view, ok := f.cache.Get(cacheKey); ok {
		f.metrics.CacheLookup("feature_flags", true)
		return view, nil
	}
	f.metrics.CacheLookup("feature_flags", false)

	rows, err := f.flagRepo.ListForPlatform(ctx, platform)
	if err != nil {
		return nil, dbError(err)
	}
	view := make(map[string]interface{}, len(rows))
	for _, flag := range rows {
		var metadata interface{}
		if len(flag.Metadata) > 0 {
			_ = json.Unmarshal(flag.Metadata, &metadata)
		}
		view[flag.Key] = response_models.FlagView{Enabled: flag.Enabled, Metadata: metadata}
	}
	f.cache.Set(cacheKey, view)
	return view, nil
}

type RemoteConfigServiceInterface interface {
	ListConfigs(ctx context.Context) ([]db_models.RemoteConfig, error)
	GetConfig(ctx context.Context, id uuid.UUID) (*db_models.RemoteConfig, error)
	CreateConfig(ctx context.Context, req request_models.RemoteConfigRequest, actor Actor) (*db_models.RemoteConfig, error)
	UpdateConfig(ctx context.Context, id uuid.UUID, req request_models.RemoteConfigRequest, actor Actor) (*db_models.RemoteConfig, error)
	DeleteConfig(ctx context.Context, id uuid.UUID, actor Actor) error
	// ClientConfigs is the {key: parsed value} view for one platform.
	ClientConfigs(ctx context.Context, platform string) (map[string]interface{}, error)
}

type RemoteConfigService struct {
	configRepo repositories.RemoteConfigRepository
	cache      mem.ViewCache
	audit      AuditServiceInterface
	metrics    *observability.Metrics
	logger     *zerolog.Logger
}

func NewRemoteConfigService(
	configRepo repositories.RemoteConfigRepository,
	cache mem.ViewCache,
	audit AuditServiceInterface,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) RemoteConfigServiceInterface {
	return &RemoteConfigService{configRepo: configRepo, cache: cache, audit: audit, metrics: metrics, logger: logger}
}

// ParseConfigValue converts raw according to valueType.
func ParseConfigValue(valueType db_models.ValueType, raw string) (interface{}, error) {
	switch valueType {
	case db_models.ValueNumber:
		return strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case db_models.ValueBoolean:
		return strconv.ParseBool(strings.TrimSpace(raw))
	case db_models.ValueJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return raw, nil
	}
}

func applyConfig(c *db_models.RemoteConfig, req request_models.RemoteConfigRequest) error {
	valueType := db_models.ValueString
	if req.ValueType != "" {
		valueType = db_models.ValueType(strings.ToLower(req.ValueType))
	}
	if !valueType.Valid() {
		return fmt.Errorf("%w: unknown value type %q", utils.ErrInvalidValueType, req.ValueType)
	}
	if _, err := ParseConfigValue(valueType, req.Value); err != nil {
		return fmt.Errorf("%w: %s", utils.ErrInvalidValueType, valueType)
	}
	c.Key = req.Key
	c.Value = req.Value
	c.ValueType = valueType
	c.Description = req.Description
	c.Platform = clientPlatform(req.Platform)
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	return nil
}

func (r *RemoteConfigService) written(ctx context.Context, actor Actor, action string, id uuid.UUID, metadata map[string]interface{}) {
	r.cache.Purge()
	if err := r.audit.Record(ctx, actor.entry(action, "REMOTE_CONFIG", id.String(), metadata)); err != nil {
		r.logger.Error().Err(err).Str("action", action).Msg("remote config audit not recorded")
	}
}

func (r *RemoteConfigService) ListConfigs(ctx context.Context) ([]db_models.RemoteConfig, error) {
	rows, err := r.configRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return rows, nil
}

func (r *RemoteConfigService) GetConfig(ctx context.Context, id uuid.UUID) (*db_models.RemoteConfig, error) {
	c, err := r.configRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if c == nil {
		return nil, utils.ErrRemoteConfigNotFound
	}
	return c, nil
}

func (r *RemoteConfigService) CreateConfig(ctx context.Context, req request_models.RemoteConfigRequest, actor Actor) (*db_models.RemoteConfig, error) {
	c := &db_models.RemoteConfig{IsActive: true}
	if err := applyConfig(c, req); err != nil {
		return nil, err
	}
	if err := r.configRepo.Create(ctx, c); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrRemoteConfigExists
		}
		return nil, dbError(err)
	}
	r.written(ctx, actor, "REMOTE_CONFIG_CREATE", c.ID, map[string]interface{}{"key": c.Key, "valueType": string(c.ValueType)})
	return c, nil
}

func (r *RemoteConfigService) UpdateConfig(ctx context.Context, id uuid.UUID, req request_models.RemoteConfigRequest, actor Actor) (*db_models.RemoteConfig, error) {
	c, err := r.GetConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyConfig(c, req); err != nil {
		return nil, err
	}
	if err := r.configRepo.Save(ctx, c); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrRemoteConfigExists
		}
		return nil, dbError(err)
	}
	r.written(ctx, actor, "REMOTE_CONFIG_UPDATE", c.ID, map[string]interface{}{"key": c.Key, "valueType": string(c.ValueType)})
	return c, nil
}

func (r *RemoteConfigService) DeleteConfig(ctx context.Context, id uuid.UUID, actor Actor) error {
	c, err := r.GetConfig(ctx, id)
	if err != nil {
		return err
	}
	if err := r.configRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	r.written(ctx, actor, "REMOTE_CONFIG_DELETE", id, map[string]interface{}{"key": c.Key})
	return nil
}

func (r *RemoteConfigService) ClientConfigs(ctx context.Context, platform string) (map[string]interface{}, error) {
	platform = clientPlatform(platform)
	cacheKey := "configs:" + platform
	if view, ok := r.cache.Get(cacheKey); ok {
		r.metrics.CacheLookup("remote_configs", true)
		return view, nil
	}
	r.metrics.CacheLookup("remote_configs", false)

	rows, err := r.configRepo.ListActiveForPlatform(ctx, platform)
	if err != nil {
		return nil, dbError(err)
	}
	view := make(map[string]interface{}, len(rows))
	for _, c := range rows {
		parsed, err := ParseConfigValue(c.ValueType, c.Value)
		if err != nil {
			parsed = c.Value
		}
		view[c.Key] = parsed
	}
	r.cache.Set(cacheKey, view)
	return view, nil
}
