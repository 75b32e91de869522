package response_models

import (
	"backoffice/internal/models/db_models"
)

type CountItem struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type PlanDistributionItem struct {
	PlanID   string `json:"planId"`
	PlanName string `json:"planName"`
	Count    int64  `json:"count"`
}

type MonthlyRevenue struct {
	Month         string  `json:"month"`
	Revenue       float64 `json:"revenue"`
	Subscriptions int64   `json:"subscriptions"`
}

type Dashboard struct {
	TotalUsers                 int64                    `json:"totalUsers"`
	ActiveUsers                int64                    `json:"activeUsers"`
	TotalSubscriptions         int64                    `json:"totalSubscriptions"`
	ActiveSubscriptions        int64                    `json:"activeSubscriptions"`
	MRR                        float64                  `json:"mrr"`
	ARR                        float64                  `json:"arr"`
	NewUsersLast30Days         int64                    `json:"newUsersLast30Days"`
	NewSubscriptionsLast30Days int64                    `json:"newSubscriptionsLast30Days"`
	PlatformDistribution       []CountItem              `json:"platformDistribution"`
	PlanDistribution           []PlanDistributionItem   `json:"planDistribution"`
	RevenueData                []MonthlyRevenue         `json:"revenueData"`
	RecentUsers                []db_models.User         `json:"recentUsers"`
	RecentSubscriptions        []db_models.Subscription `json:"recentSubscriptions"`
}

type PlanRevenue struct {
	PlanName    string  `json:"planName"`
	Revenue     float64 `json:"revenue"`
	Subscribers int64   `json:"subscribers"`
}

type PlatformRevenue struct {
	Platform    string  `json:"platform"`
	Revenue     float64 `json:"revenue"`
	Subscribers int64   `json:"subscribers"`
}

type RevenueAnalytics struct {
	RevenueByMonth    []MonthlyRevenue  `json:"revenueByMonth"`
	RevenueByPlan     []PlanRevenue     `json:"revenueByPlan"`
	RevenueByPlatform []PlatformRevenue `json:"revenueByPlatform"`
	ChurnRate         float64           `json:"churnRate"`
}

type UserGrowthPoint struct {
	Month      string `json:"month"`
	NewUsers   int64  `json:"newUsers"`
	TotalUsers int64  `json:"totalUsers"`
}
