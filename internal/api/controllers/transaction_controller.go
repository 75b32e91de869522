package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"
)

type TransactionController struct {
	transactionService services.TransactionServiceInterface
}

func NewTransactionController(transactionService services.TransactionServiceInterface) *TransactionController {
	return &TransactionController{transactionService: transactionService}
}

func (t *TransactionController) list(c *gin.Context, filter repositories.TransactionFilter) {
	page, limit, ok := pagination(c, defaultAdminPageSize)
	if !ok {
		return
	}
	txns, err := t.transactionService.ListTransactions(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, txns, "")
}

// ListTransactions godoc
// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Param status query string false "COMPLETED, PENDING, FAILED or REFUNDED"
// @Param platform query string false "web or mobile"
// @Param userId query string false "User id"
// @Param startDate query string false "RFC3339 or YYYY-MM-DD"
// @Param endDate query string false "RFC3339 or YYYY-MM-DD"
// @Param search query string false "Transaction id or user email"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/transactions [get]
func (t *TransactionController) ListTransactions(c *gin.Context) {
	userID, ok := queryUUID(c, "userId")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	t.list(c, repositories.TransactionFilter{
		Status:   c.Query("status"),
		Platform: c.Query("platform"),
		UserID:   userID,
		From:     from,
		To:       to,
		Search:   c.Query("search"),
	})
}

func (t *TransactionController) UserTransactions(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	t.list(c, repositories.TransactionFilter{UserID: &userID})
}

func (t *TransactionController) Stats(c *gin.Context) {
	stats, err := t.transactionService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, stats, "")
}

func (t *TransactionController) GetTransaction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	txn, err := t.transactionService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, txn, "")
}

func (t *TransactionController) Refund(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request_models.RefundRequest
	if !bindJSON(c, &req) {
		return
	}
	txn, err := t.transactionService.Refund(c.Request.Context(), id, req, middleware.ActorFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, txn, "Transaction refunded successfully")
}
