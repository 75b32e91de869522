package analytics_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"backoffice/internal/api/controllers"
	"backoffice/internal/repositories"
	"backoffice/internal/services"
)

// Module wires the read-only analytics stack end to end.
var Module = fx.Provide(
	provideAnalyticsRepo,
	services.NewDashboardService,
	controllers.NewDashboardController,
)

func provideAnalyticsRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}
