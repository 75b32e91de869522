package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrResourceInUse   = errors.New("resource is still referenced")

	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrInvalidResetToken   = errors.New("invalid or expired token")
	ErrUnsupportedProvider = errors.New("unsupported login provider")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrAccountRestricted   = errors.New("account is suspended or banned")

	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleAlreadyExists   = errors.New("role already exists")
	ErrCannotDeleteDefault = errors.New("cannot delete default role")

	ErrPlanNotFound    = errors.New("plan not found")
	ErrInvalidInterval = errors.New("invalid plan interval")

	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrSubscriptionNotActive = errors.New("subscription is not active")
	ErrInvalidSignature      = errors.New("invalid webhook signature")
	ErrUnauthorizedWebhook   = errors.New("unauthorized webhook")
	ErrPaymentProvider       = errors.New("payment provider error")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyRefunded     = errors.New("transaction already refunded")
	ErrNotRefundable       = errors.New("only completed transactions can be refunded")
	ErrRefundExceedsAmount = errors.New("refund amount exceeds transaction amount")

	ErrAuditLogNotFound = errors.New("audit log not found")

	ErrTemplateNotFound = errors.New("email template not found")
	ErrTemplateExists   = errors.New("email template already exists")
	ErrEmailLogNotFound = errors.New("email log not found")
	ErrEmailDelivery    = errors.New("email delivery failed")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidNotification  = errors.New("invalid notification type")
	ErrNoDevices            = errors.New("no devices found for user")

	ErrPushNotificationNotFound = errors.New("push notification not found")

	ErrDeviceNotFound  = errors.New("device not found")
	ErrDeviceBanned    = errors.New("device is banned")
	ErrDeviceNotBanned = errors.New("device is not banned")

	ErrAppVersionNotFound = errors.New("app version not found")
	ErrAppVersionExists   = errors.New("app version already exists for platform")

	ErrFeatureFlagNotFound  = errors.New("feature flag not found")
	ErrFeatureFlagExists    = errors.New("feature flag key already exists")
	ErrRemoteConfigNotFound = errors.New("remote config not found")
	ErrRemoteConfigExists   = errors.New("remote config key already exists")
	ErrInvalidValueType     = errors.New("value does not match value type")

	ErrWaitingListExists   = errors.New("email already on waiting list")
	ErrWaitingListNotFound = errors.New("waiting list entry not found")
)
