package repository_fx

import (
	"go.uber.org/fx"

	"backoffice/internal/repositories"
)

var Module = fx.Provide(
	repositories.NewUserRepository,
	repositories.NewRoleRepository,
	repositories.NewPermissionRepository,
	repositories.NewPlanRepository,
	repositories.NewSubscriptionRepository,
	repositories.NewTransactionRepository,
	repositories.NewAuditLogRepository,
	repositories.NewEmailTemplateRepository,
	repositories.NewEmailLogRepository,
	repositories.NewNotificationRepository,
	repositories.NewPushNotificationRepository,
	repositories.NewDeviceRepository,
	repositories.NewAppVersionRepository,
	repositories.NewFeatureFlagRepository,
	repositories.NewRemoteConfigRepository,
	repositories.NewSettingRepository,
	repositories.NewWaitingListRepository,
)
