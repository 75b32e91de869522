package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

const defaultAuditStatsDays = 30

type AuditLogController struct {
	auditService services.AuditServiceInterface
}

func NewAuditLogController(auditService services.AuditServiceInterface) *AuditLogController {
	return &AuditLogController{auditService: auditService}
}

func (a *AuditLogController) list(c *gin.Context, filter repositories.AuditLogFilter) {
	page, limit, ok := pagination(c, defaultAdminPageSize)
	if !ok {
		return
	}
	logs, err := a.auditService.ListLogs(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, logs, "")
}

func (a *AuditLogController) ListLogs(c *gin.Context) {
	userID, ok := queryUUID(c, "userId")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	a.list(c, repositories.AuditLogFilter{
		UserID:     userID,
		Action:     c.Query("action"),
		EntityType: c.Query("entityType"),
		Platform:   c.Query("platform"),
		From:       from,
		To:         to,
	})
}

func (a *AuditLogController) UserLogs(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	a.list(c, repositories.AuditLogFilter{UserID: &userID})
}

func (a *AuditLogController) Stats(c *gin.Context) {
	stats, err := a.auditService.Stats(c.Request.Context(), queryInt(c, "days", defaultAuditStatsDays))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "")
}

func (a *AuditLogController) GetLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := a.auditService.GetLog(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "")
}
