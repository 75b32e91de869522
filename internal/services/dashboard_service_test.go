package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "backoffice/internal/models/db_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

func TestMonthlyAndAnnualEquivalent(t *testing.T) {
	assert.Equal(t, 10.0, monthlyEquivalent(10, "MONTHLY"))
	assert.Equal(t, 10.0, monthlyEquivalent(120, "YEARLY"))
	assert.Zero(t, monthlyEquivalent(50, "WEEKLY"))
	assert.Equal(t, 120.0, annualEquivalent(10, "MONTHLY"))
	assert.Equal(t, 120.0, annualEquivalent(120, "YEARLY"))
}

func TestNormalizeMonths(t *testing.T) {
	assert.Equal(t, 12, normalizeMonths(0))
	assert.Equal(t, 12, normalizeMonths(-3))
	assert.Equal(t, 6, normalizeMonths(6))
	assert.Equal(t, 60, normalizeMonths(240))
}

func TestPaidIn(t *testing.T) {
	march := utils.MonthRange{Start: 1000, End: 2000}
	before, during := int64(500), int64(1500)

	tests := []struct {
		name string
		sub  repositories.SubWithPlan
		want bool
	}{
		{"active", repositories.SubWithPlan{Status: "ACTIVE", StartDate: 100}, true},
		{"starts after month", repositories.SubWithPlan{Status: "ACTIVE", StartDate: 2500}, false},
		{"canceled during month", repositories.SubWithPlan{Status: "CANCELED", StartDate: 100, CanceledAt: &during}, true},
		{"canceled before month", repositories.SubWithPlan{Status: "CANCELED", StartDate: 100, CanceledAt: &before}, false},
		{"canceled without date", repositories.SubWithPlan{Status: "CANCELED", StartDate: 100}, false},
		{"expired", repositories.SubWithPlan{Status: "EXPIRED", StartDate: 100}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, paidIn(tc.sub, march))
		})
	}
}

func TestDashboardFinancials(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(repositories.NewDashboardRepository(f.db))
	now := time.Now()
	started := now.AddDate(0, 0, -40).Unix()
	canceledAt := now.Add(-time.Minute).Unix()

	monthly := f.plan(t, "Monthly", "price_m", "", 10)
	yearly := &dbm.Plan{Name: "Yearly", Price: decimal.NewFromInt(120), Interval: dbm.IntervalYearly, IsActive: true}
	require.NoError(t, f.db.Create(yearly).Error)

	a := f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")
	c := f.user(t, "c@example.com")
	require.NoError(t, f.db.Model(c).Update("status", dbm.UserStatusBanned).Error)

	for _, s := range []*dbm.Subscription{
		{UserID: a.ID, PlanID: monthly.ID, Status: dbm.SubStatusActive, StartDate: started, EndDate: started, PurchasePlatform: dbm.PlatformWeb},
		{UserID: b.ID, PlanID: yearly.ID, Status: dbm.SubStatusActive, StartDate: started, EndDate: started, PurchasePlatform: dbm.PlatformMobile},
		{UserID: c.ID, PlanID: monthly.ID, Status: dbm.SubStatusCanceled, StartDate: started, EndDate: started, CanceledAt: &canceledAt},
	} {
		require.NoError(t, f.db.Create(s).Error)
	}

	dash, err := svc.BuildDashboard(bg)
	require.NoError(t, err)
	assert.Equal(t, int64(3), dash.TotalUsers)
	assert.Equal(t, int64(2), dash.ActiveUsers)
	assert.Equal(t, int64(3), dash.TotalSubscriptions)
	assert.Equal(t, int64(2), dash.ActiveSubscriptions)
	assert.Equal(t, int64(3), dash.NewSubscriptionsLast30Days)
	assert.InDelta(t, 20.0, dash.MRR, 0.001)
	assert.InDelta(t, 240.0, dash.ARR, 0.001)
	assert.Len(t, dash.RevenueData, dashboardRevenueMonths)
	require.Len(t, dash.PlanDistribution, 2)

	analytics, err := svc.RevenueAnalytics(bg, 3)
	require.NoError(t, err)
	require.Len(t, analytics.RevenueByMonth, 3)
	current := analytics.RevenueByMonth[2]
	assert.InDelta(t, 30.0, current.Revenue, 0.001)
	assert.Equal(t, int64(3), current.Subscriptions)
	assert.InDelta(t, 50.0, analytics.ChurnRate, 0.001)

	require.Len(t, analytics.RevenueByPlan, 2)
	assert.Equal(t, "Monthly", analytics.RevenueByPlan[0].PlanName)
	assert.Equal(t, "Yearly", analytics.RevenueByPlan[1].PlanName)
	require.Len(t, analytics.RevenueByPlatform, 2)
	assert.Equal(t, dbm.PlatformMobile, analytics.RevenueByPlatform[0].Platform)

	growth, err := svc.UserGrowth(bg, 0)
	require.NoError(t, err)
	require.Len(t, growth, defaultAnalyticsMonths)
	last := growth[len(growth)-1]
	assert.Equal(t, int64(3), last.NewUsers)
	assert.Equal(t, int64(3), last.TotalUsers)
}
