package mobile_fx

import (
	"go.uber.org/fx"

	"backoffice/internal/services"
)

var Module = fx.Provide(
	services.NewAppVersionService,
	services.NewFeatureFlagService,
	services.NewRemoteConfigService,
)
