package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

const maxWebhookBody = 1 << 20

type PaymentController struct {
	paymentService    services.PaymentServiceInterface
	revenueCatService services.RevenueCatServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface, revenueCatService services.RevenueCatServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService:    paymentService,
		revenueCatService: revenueCatService,
	}
}

// CreateCheckoutSession godoc
// @Summary Create a Stripe checkout session for a plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CheckoutSessionRequest true "Plan to buy"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /create-checkout-session [post]
func (p *PaymentController) CreateCheckoutSession(c *gin.Context) {
	var request request_models.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session, err := p.paymentService.CreateCheckoutSession(c.Request.Context(), userID, request.PlanID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Checkout session created successfully")
}

// StripeWebhook reads the raw body so the signature can be checked.
func (p *PaymentController) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Unable to read request body")
		return
	}

	if err := p.paymentService.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"received": true}, "")
}

func (p *PaymentController) RevenueCatWebhook(c *gin.Context) {
	if err := p.revenueCatService.Authorize(c.GetHeader("Authorization")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	var payload request_models.RevenueCatWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	if err := p.revenueCatService.HandleWebhook(c.Request.Context(), c.GetHeader("Authorization"), payload); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"received": true}, "")
}
