package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	pushService         services.PushServiceInterface
}

func NewNotificationController(notificationService services.NotificationServiceInterface, pushService services.PushServiceInterface) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		pushService:         pushService,
	}
}

// ---------- in-app ----------

func (n *NotificationController) list(c *gin.Context, filter repositories.NotificationFilter) {
	page, limit, ok := pagination(c, defaultAdminPageSize)
	if !ok {
		return
	}
	items, err := n.notificationService.ListNotifications(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, "")
}

// ListNotifications godoc
// @Summary List in-app notifications
// @Tags Notifications
// @Produce json
// @Param userId query string false "User id"
// @Param type query string false "INFO, SUCCESS, WARNING or ERROR"
// @Param isRead query bool false "Read state"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/notifications [get]
func (n *NotificationController) ListNotifications(c *gin.Context) {
	userID, ok := queryUUID(c, "userId")
	if !ok {
		return
	}
	isRead, ok := queryBool(c, "isRead")
	if !ok {
		return
	}
	n.list(c, repositories.NotificationFilter{UserID: userID, Type: c.Query("type"), IsRead: isRead})
}

func (n *NotificationController) UserNotifications(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	n.list(c, repositories.NotificationFilter{UserID: &userID})
}

func (n *NotificationController) Stats(c *gin.Context) {
	stats, err := n.notificationService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "")
}

func (n *NotificationController) GetNotification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := n.notificationService.GetNotification(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, item, "")
}

func (n *NotificationController) CreateNotification(c *gin.Context) {
	var req request_models.NotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := n.notificationService.CreateNotification(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, item, "Notification created successfully")
}

func (n *NotificationController) BulkCreate(c *gin.Context) {
	var req request_models.BulkNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	count, err := n.notificationService.BulkCreate(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, gin.H{"count": count}, "Notifications created successfully")
}

func (n *NotificationController) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := n.notificationService.MarkRead(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, item, "Notification marked as read")
}

func (n *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	updated, err := n.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"updated": updated}, "Notifications marked as read")
}

func (n *NotificationController) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := n.notificationService.DeleteNotification(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Notification deleted successfully")
}

// ---------- push ----------

func (n *NotificationController) ListPushes(c *gin.Context) {
	userID, ok := queryUUID(c, "userId")
	if !ok {
		return
	}
	page, limit, ok := pagination(c, defaultAdminPageSize)
	if !ok {
		return
	}
	filter := repositories.PushNotificationFilter{
		UserID:   userID,
		Status:   c.Query("status"),
		Platform: c.Query("platform"),
	}
	items, err := n.pushService.ListPushes(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, "")
}

func (n *NotificationController) PushStats(c *gin.Context) {
	stats, err := n.pushService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "")
}

func (n *NotificationController) GetPush(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := n.pushService.GetPush(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, row, "")
}

func (n *NotificationController) SendPush(c *gin.Context) {
	var req request_models.PushRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := n.pushService.Send(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, record, "Push notification processed")
}

func (n *NotificationController) SendBulkPush(c *gin.Context) {
	var req request_models.BulkPushRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := n.pushService.SendBulk(c.Request.Context(), req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Bulk push processed")
}
