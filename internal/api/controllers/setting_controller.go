package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

type SettingController struct {
	settingService services.SettingServiceInterface
	waitingList    services.WaitingListServiceInterface
}

func NewSettingController(settingService services.SettingServiceInterface, waitingList services.WaitingListServiceInterface) *SettingController {
	return &SettingController{settingService: settingService, waitingList: waitingList}
}

func (s *SettingController) General(c *gin.Context) {
	general, err := s.settingService.General(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, general, "")
}

func (s *SettingController) UpdateGeneral(c *gin.Context) {
	var items []request_models.SettingItem
	if !bindJSON(c, &items) {
		return
	}
	general, err := s.settingService.UpdateGeneral(c.Request.Context(), items)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, general, "Settings updated successfully")
}

func (s *SettingController) WaitingPageStatus(c *gin.Context) {
	status, err := s.settingService.WaitingPageStatus(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"status": status}, "")
}

func (s *SettingController) SetWaitingPageStatus(c *gin.Context) {
	var req request_models.WaitingPageStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := s.settingService.SetWaitingPageStatus(c.Request.Context(), req.Status.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"status": status}, "Waiting page status updated")
}

func (s *SettingController) JoinWaitingList(c *gin.Context) {
	var req request_models.WaitingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "A valid email is required")
		return
	}
	entry, err := s.waitingList.Join(c.Request.Context(), req.Email)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, entry, "Added to waiting list")
}

func (s *SettingController) ListWaitingList(c *gin.Context) {
	entries, err := s.waitingList.List(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entries, "")
}

func (s *SettingController) WaitingListStats(c *gin.Context) {
	stats, err := s.waitingList.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "")
}

func (s *SettingController) WaitingListBulkEmail(c *gin.Context) {
	var req request_models.WaitingListEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	queued, err := s.waitingList.BulkEmail(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusAccepted, gin.H{"queued": queued}, "Emails queued")
}

func (s *SettingController) RemoveWaitingListEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.waitingList.Remove(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Entry removed")
}
