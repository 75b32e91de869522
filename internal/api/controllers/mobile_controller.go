package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"
)

type MobileController struct {
	versionService services.AppVersionServiceInterface
	flagService    services.FeatureFlagServiceInterface
	configService  services.RemoteConfigServiceInterface
}

func NewMobileController(
	versionService services.AppVersionServiceInterface,
	flagService services.FeatureFlagServiceInterface,
	configService services.RemoteConfigServiceInterface,
) *MobileController {
	return &MobileController{
		versionService: versionService,
		flagService:    flagService,
		configService:  configService,
	}
}

// ---------- app versions ----------

func (m *MobileController) ListVersions(c *gin.Context) {
	versions, err := m.versionService.ListVersions(c.Request.Context(), c.Query("platform"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, versions, "")
}

func (m *MobileController) GetVersion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	version, err := m.versionService.GetVersion(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, version, "")
}

func (m *MobileController) CreateVersion(c *gin.Context) {
	var req request_models.AppVersionRequest
	if !bindJSON(c, &req) {
		return
	}
	version, err := m.versionService.CreateVersion(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, version, "App version created successfully")
}

func (m *MobileController) UpdateVersion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.AppVersionRequest
	if !bindJSON(c, &req) {
		return
	}
	version, err := m.versionService.UpdateVersion(c.Request.Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, version, "App version updated successfully")
}

func (m *MobileController) DeleteVersion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := m.versionService.DeleteVersion(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "App version deleted successfully")
}

// LatestVersion godoc
// @Summary Latest active app version for a platform
// @Tags Mobile
// @Produce json
// @Param platform path string true "ios, android or web"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /app-versions/latest/{platform} [get]
func (m *MobileController) LatestVersion(c *gin.Context) {
	version, err := m.versionService.Latest(c.Request.Context(), c.Param("platform"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, version, "")
}

func (m *MobileController) CheckUpdate(c *gin.Context) {
	var query request_models.CheckUpdateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "platform is required")
		return
	}
	result, err := m.versionService.CheckUpdate(c.Request.Context(), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "")
}

// ---------- feature flags ----------

func (m *MobileController) ListFlags(c *gin.Context) {
	flags, err := m.flagService.ListFlags(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, flags, "")
}

func (m *MobileController) GetFlag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	flag, err := m.flagService.GetFlag(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, flag, "")
}

func (m *MobileController) CreateFlag(c *gin.Context) {
	var req request_models.FeatureFlagRequest
	if !bindJSON(c, &req) {
		return
	}
	flag, err := m.flagService.CreateFlag(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, flag, "Feature flag created successfully")
}

func (m *MobileController) UpdateFlag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.FeatureFlagRequest
	if !bindJSON(c, &req) {
		return
	}
	flag, err := m.flagService.UpdateFlag(c.Request.Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, flag, "Feature flag updated successfully")
}

func (m *MobileController) ToggleFlag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	flag, err := m.flagService.ToggleFlag(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, flag, "Feature flag toggled")
}

func (m *MobileController) DeleteFlag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := m.flagService.DeleteFlag(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Feature flag deleted successfully")
}

func (m *MobileController) ClientFlags(c *gin.Context) {
	flags, err := m.flagService.ClientFlags(c.Request.Context(), c.Query("platform"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, flags, "")
}

// ---------- remote configs ----------

func (m *MobileController) ListConfigs(c *gin.Context) {
	configs, err := m.configService.ListConfigs(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, configs, "")
}

func (m *MobileController) GetConfig(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	config, err := m.configService.GetConfig(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, config, "")
}

func (m *MobileController) CreateConfig(c *gin.Context) {
	var req request_models.RemoteConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	config, err := m.configService.CreateConfig(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, config, "Remote config created successfully")
}

func (m *MobileController) UpdateConfig(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.RemoteConfigRequest
	if !bindJSON(c, &req) {
		return
	}
	config, err := m.configService.UpdateConfig(c.Request.Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, config, "Remote config updated successfully")
}

func (m *MobileController) DeleteConfig(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := m.configService.DeleteConfig(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Remote config deleted successfully")
}

func (m *MobileController) ClientConfigs(c *gin.Context) {
	configs, err := m.configService.ClientConfigs(c.Request.Context(), c.Query("platform"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, configs, "")
}
