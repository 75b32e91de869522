package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")

	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRoleNotFound),
		errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrSubscriptionNotFound),
		errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, ErrAuditLogNotFound),
		errors.Is(err, ErrTemplateNotFound),
		errors.Is(err, ErrEmailLogNotFound),
		errors.Is(err, ErrNotificationNotFound),
		errors.Is(err, ErrPushNotificationNotFound),
		errors.Is(err, ErrNoDevices),
		errors.Is(err, ErrDeviceNotFound),
		errors.Is(err, ErrAppVersionNotFound),
		errors.Is(err, ErrFeatureFlagNotFound),
		errors.Is(err, ErrRemoteConfigNotFound),
		errors.Is(err, ErrWaitingListNotFound):
		RespondError(c, http.StatusNotFound, clientMessage(err))

	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUnauthorizedWebhook), errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrInvalidSignature):
		RespondError(c, http.StatusBadRequest, "Webhook signature verification failed")
	case errors.Is(err, ErrAccountRestricted), errors.Is(err, ErrDeviceBanned):
		RespondError(c, http.StatusForbidden, clientMessage(err))
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already in use")
	case errors.Is(err, ErrResourceInUse):
		RespondError(c, http.StatusConflict, "Resource is still referenced")

	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrInvalidResetToken),
		errors.Is(err, ErrUnsupportedProvider),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrRoleAlreadyExists),
		errors.Is(err, ErrInvalidInterval),
		errors.Is(err, ErrSubscriptionNotActive),
		errors.Is(err, ErrAlreadyRefunded),
		errors.Is(err, ErrNotRefundable),
		errors.Is(err, ErrRefundExceedsAmount),
		errors.Is(err, ErrTemplateExists),
		errors.Is(err, ErrInvalidNotification),
		errors.Is(err, ErrDeviceNotBanned),
		errors.Is(err, ErrAppVersionExists),
		errors.Is(err, ErrFeatureFlagExists),
		errors.Is(err, ErrRemoteConfigExists),
		errors.Is(err, ErrInvalidValueType),
		errors.Is(err, ErrWaitingListExists):
		RespondError(c, http.StatusBadRequest, clientMessage(err))
	case errors.Is(err, ErrCannotDeleteDefault):
		RespondError(c, http.StatusBadRequest, "Cannot delete default role")

	case errors.Is(err, ErrPaymentProvider), errors.Is(err, ErrEmailDelivery):
		log.Error().Err(err).Str("trace_id", traceID(c)).Msg("upstream provider error")
		RespondError(c, http.StatusBadGateway, clientMessage(err))
	case errors.Is(err, ErrDatabaseError):
		log.Error().Err(err).Str("trace_id", traceID(c)).Msg("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Error().Err(err).Str("trace_id", traceID(c)).Msg("unhandled service error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// clientMessage capitalizes the error text for the response body.
func clientMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	if msg[0] >= 'a' && msg[0] <= 'z' {
		return string(msg[0]-'a'+'A') + msg[1:]
	}
	return msg
}
