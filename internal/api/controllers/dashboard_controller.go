package controllers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/services"
	"backoffice/pkg/utils"
)

const defaultAnalyticsMonths = 12

type DashboardController struct {
	dashboardService services.DashboardService
}

func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// @Summary Get dashboard report
// @Description KPI blocks, MRR/ARR, platform and plan mix, six months of revenue, recent users and subscriptions
// @Tags Analytics
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/analytics/dashboard [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	report, err := p.dashboardService.BuildDashboard(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

// RevenueAnalytics godoc
// @Summary Revenue by month, plan and platform plus churn
// @Tags Analytics
// @Produce json
// @Param months query int false "Lookback in months" default(12)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/analytics/revenue [get]
func (p *DashboardController) RevenueAnalytics(c *gin.Context) {
	report, err := p.dashboardService.RevenueAnalytics(c.Request.Context(), queryInt(c, "months", defaultAnalyticsMonths))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "")
}

// UserGrowth godoc
// @Summary New and cumulative users per month
// @Tags Analytics
// @Produce json
// @Param months query int false "Lookback in months" default(12)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/analytics/user-growth [get]
func (p *DashboardController) UserGrowth(c *gin.Context) {
	points, err := p.dashboardService.UserGrowth(c.Request.Context(), queryInt(c, "months", defaultAnalyticsMonths))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, points, "")
}
