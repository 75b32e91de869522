package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"
)

type DeviceController struct {
	deviceService services.DeviceServiceInterface
}

func NewDeviceController(deviceService services.DeviceServiceInterface) *DeviceController {
	return &DeviceController{deviceService: deviceService}
}

// Register godoc
// @Summary Register or refresh the caller's device
// @Tags Devices
// @Accept json
// @Produce json
// @Param request body request_models.RegisterDeviceRequest true "Device info"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /devices [post]
func (d *DeviceController) Register(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request_models.RegisterDeviceRequest
	if !bindJSON(c, &req) {
		return
	}
	device, err := d.deviceService.Register(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, device, "Device registered successfully")
}

func (d *DeviceController) ListDevices(c *gin.Context) {
	userID, ok := queryUUID(c, "userId")
	if !ok {
		return
	}
	banned, ok := queryBool(c, "banned")
	if !ok {
		return
	}
	page, limit, ok := pagination(c, defaultAdminPageSize)
	if !ok {
		return
	}
	filter := repositories.DeviceFilter{Platform: c.Query("platform"), UserID: userID, Banned: banned}
	devices, err := d.deviceService.ListDevices(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, devices, "")
}

func (d *DeviceController) Stats(c *gin.Context) {
	stats, err := d.deviceService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "")
}

func (d *DeviceController) GetDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	device, err := d.deviceService.GetDevice(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, device, "")
}

func (d *DeviceController) UserDevices(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	devices, err := d.deviceService.UserDevices(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, devices, "")
}

func (d *DeviceController) Ban(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.BanDeviceRequest
	_ = c.ShouldBindJSON(&req)

	device, err := d.deviceService.Ban(c.Request.Context(), id, req.Reason, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, device, "Device banned successfully")
}

func (d *DeviceController) Unban(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	device, err := d.deviceService.Unban(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, device, "Device unbanned successfully")
}

func (d *DeviceController) DeleteDevice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := d.deviceService.DeleteDevice(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Device deleted successfully")
}
