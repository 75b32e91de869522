package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService}
}

func (s *SubscriptionController) ListSubscriptions(c *gin.Context) {
	page, limit, ok := pagination(c, defaultAdminPageSize)
	if !ok {
		return
	}
	subs, err := s.subscriptionService.ListSubscriptions(c.Request.Context(), page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, subs, "")
}

func (s *SubscriptionController) GetSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sub, err := s.subscriptionService.GetSubscription(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "")
}

func (s *SubscriptionController) CreateSubscription(c *gin.Context) {
	var req request_models.SubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := s.subscriptionService.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, sub, "Subscription created successfully")
}

func (s *SubscriptionController) UpdateSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.SubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := s.subscriptionService.UpdateSubscription(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "Subscription updated successfully")
}

func (s *SubscriptionController) DeleteSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.subscriptionService.DeleteSubscription(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Subscription deleted successfully")
}

func (s *SubscriptionController) CancelSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.CancelSubscriptionRequest
	_ = c.ShouldBindJSON(&req)

	sub, err := s.subscriptionService.CancelSubscription(c.Request.Context(), id, req.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "Subscription canceled successfully")
}

// SyncRevenueCat mirrors the app's RevenueCat customer info for the caller.
func (s *SubscriptionController) SyncRevenueCat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req request_models.RevenueCatSyncRequest
	if !bindJSON(c, &req) {
		return
	}
	subs, err := s.subscriptionService.SyncRevenueCat(c.Request.Context(), userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, subs, "Subscriptions synced")
}

func (s *SubscriptionController) MyMobileSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sub, err := s.subscriptionService.MyMobileSubscription(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "")
}
