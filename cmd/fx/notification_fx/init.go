package notification_fx

import (
	"go.uber.org/fx"

	"backoffice/internal/services"
)

var Module = fx.Provide(
	services.NewNotificationService,
	services.NewLogPushSender,
	services.NewPushService,
	services.NewDeviceService,
)
