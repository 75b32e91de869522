package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

type EmailController struct {
	templateService services.EmailTemplateServiceInterface
	logService      services.EmailLogServiceInterface
}

func NewEmailController(templateService services.EmailTemplateServiceInterface, logService services.EmailLogServiceInterface) *EmailController {
	return &EmailController{templateService: templateService, logService: logService}
}

func (e *EmailController) ListTemplates(c *gin.Context) {
	templates, err := e.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, templates, "")
}

func (e *EmailController) GetTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tpl, err := e.templateService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, tpl, "")
}

func (e *EmailController) CreateTemplate(c *gin.Context) {
	var req request_models.EmailTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := e.templateService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, tpl, "Email template created successfully")
}

func (e *EmailController) UpdateTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.EmailTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	tpl, err := e.templateService.UpdateTemplate(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, tpl, "Email template updated successfully")
}

func (e *EmailController) DeleteTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := e.templateService.DeleteTemplate(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Email template deleted successfully")
}

func (e *EmailController) listLogs(c *gin.Context, filter repositories.EmailLogFilter) {
	page, limit, ok := pagination(c, defaultAdminPageSize)
	if !ok {
		return
	}
	logs, err := e.logService.ListLogs(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, logs, "")
}

func (e *EmailController) ListLogs(c *gin.Context) {
	userID, ok := queryUUID(c, "userId")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	e.listLogs(c, repositories.EmailLogFilter{
		Status: c.Query("status"),
		UserID: userID,
		From:   from,
		To:     to,
		Search: c.Query("search"),
	})
}

func (e *EmailController) UserLogs(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	e.listLogs(c, repositories.EmailLogFilter{UserID: &userID})
}

func (e *EmailController) LogStats(c *gin.Context) {
	stats, err := e.logService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "")
}

func (e *EmailController) GetLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := e.logService.GetLog(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "")
}

func (e *EmailController) Resend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := e.logService.Resend(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusAccepted, gin.H{"queued": true}, "Email queued for resend")
}
