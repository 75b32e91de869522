package services

import (
	"context"
	"sort"
	"time"

	dbm "backoffice/internal/models/db_models"
	resp "backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

const (
	dashboardRevenueMonths = 6
	dashboardRecentLimit   = 5
	defaultAnalyticsMonths = 12
	maxAnalyticsMonths     = 60
)

type DashboardService interface {
	BuildDashboard(ctx context.Context) (*resp.Dashboard, error)
	RevenueAnalytics(ctx context.Context, months int) (*resp.RevenueAnalytics, error)
	UserGrowth(ctx context.Context, months int) ([]resp.UserGrowthPoint, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

// normalizeMonths falls back to a year and caps the window at five.
func normalizeMonths(months int) int {
	if months <= 0 {
		return defaultAnalyticsMonths
	}
	if months > maxAnalyticsMonths {
		return maxAnalyticsMonths
	}
	return months
}

func monthlyEquivalent(price float64, interval string) float64 {
	switch dbm.BillingInterval(interval) {
	case dbm.IntervalMonthly:
		return price
	case dbm.IntervalYearly:
		return price / 12
	default:
		return 0
	}
}

func annualEquivalent(price float64, interval string) float64 {
	switch dbm.BillingInterval(interval) {
	case dbm.IntervalMonthly:
		return price * 12
	case dbm.IntervalYearly:
		return price
	default:
		return 0
	}
}

// paidIn reports whether a subscription contributed revenue to month m.
func paidIn(s repositories.SubWithPlan, m utils.MonthRange) bool {
	if s.StartDate > m.End {
		return false
	}
	switch dbm.SubscriptionStatus(s.Status) {
	case dbm.SubStatusActive:
		return true
	case dbm.SubStatusCanceled:
		return s.CanceledAt != nil && *s.CanceledAt >= m.Start
	default:
		return false
	}
}

func (s *dashboardService) revenueByMonth(ctx context.Context, months int) ([]resp.MonthlyRevenue, error) {
	ranges := utils.LastMonths(s.now(), months)
	if len(ranges) == 0 {
		return nil, nil
	}
	candidates, err := s.repo.RevenueCandidates(ctx, time.Unix(ranges[len(ranges)-1].End, 0))
	if err != nil {
		return nil, dbError(err)
	}

	out := make([]resp.MonthlyRevenue, 0, len(ranges))
	for _, m := range ranges {
		var (
			revenue float64
			count   int64
		)
		for _, sub := range candidates {
			if !paidIn(sub, m) {
				continue
			}
			revenue += monthlyEquivalent(sub.Price, sub.Interval)
			count++
		}
		out = append(out, resp.MonthlyRevenue{
			Month:         m.Label,
			Revenue:       utils.Round2(revenue),
			Subscriptions: count,
		})
	}
	return out, nil
}

func (s *dashboardService) BuildDashboard(ctx context.Context) (*resp.Dashboard, error) {
	now := s.now()
	since := now.AddDate(0, 0, -30)

	// ---------- Core counts ----------
	totalUsers, err := s.repo.CountTotalUsers(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	activeUsers, err := s.repo.CountUsersByStatus(ctx, dbm.UserStatusActive)
	if err != nil {
		return nil, dbError(err)
	}
	totalSubs, err := s.repo.CountTotalSubscriptions(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	activeSubs, err := s.repo.CountSubscriptionsByStatus(ctx, dbm.SubStatusActive)
	if err != nil {
		return nil, dbError(err)
	}
	newUsers, err := s.repo.CountNewUsers(ctx, since, now)
	if err != nil {
		return nil, dbError(err)
	}
	newSubs, err := s.repo.CountNewSubscriptions(ctx, since, now)
	if err != nil {
		return nil, dbError(err)
	}

	// ---------- Financials: MRR/ARR ----------
	activeWithPlan, err := s.repo.ActiveSubscriptionsWithPlan(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	var mrr, arr float64
	for _, row := range activeWithPlan {
		mrr += monthlyEquivalent(row.Price, row.Interval)
		arr += annualEquivalent(row.Price, row.Interval)
	}

	// ---------- Distributions ----------
	platforms, err := s.repo.LoginPlatformMix(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	planRows, err := s.repo.PlanMix(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	planMix := make([]resp.PlanDistributionItem, 0, len(planRows))
	for _, r := range planRows {
		planMix = append(planMix, resp.PlanDistributionItem{PlanID: r.PlanID, PlanName: r.PlanName, Count: r.Count})
	}

	// ---------- Series ----------
	revenue, err := s.revenueByMonth(ctx, dashboardRevenueMonths)
	if err != nil {
		return nil, err
	}

	// ---------- Recent activity ----------
	recentUsers, err := s.repo.RecentUsers(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, dbError(err)
	}
	recentSubs, err := s.repo.RecentSubscriptions(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, dbError(err)
	}

	return &resp.Dashboard{
		TotalUsers:                 totalUsers,
		ActiveUsers:                activeUsers,
		TotalSubscriptions:         totalSubs,
		ActiveSubscriptions:        activeSubs,
		MRR:                        utils.Round2(mrr),
		ARR:                        utils.Round2(arr),
		NewUsersLast30Days:         newUsers,
		NewSubscriptionsLast30Days: newSubs,
		PlatformDistribution:       toCountItems(platforms),
		PlanDistribution:           planMix,
		RevenueData:                revenue,
		RecentUsers:                recentUsers,
		RecentSubscriptions:        recentSubs,
	}, nil
}

func (s *dashboardService) RevenueAnalytics(ctx context.Context, months int) (*resp.RevenueAnalytics, error) {
	now := s.now()

	byMonth, err := s.revenueByMonth(ctx, normalizeMonths(months))
	if err != nil {
		return nil, err
	}
	active, err := s.repo.ActiveSubscriptionsWithPlan(ctx)
	if err != nil {
		return nil, dbError(err)
	}

	plans := map[string]*resp.PlanRevenue{}
	platforms := map[string]*resp.PlatformRevenue{}
	for _, sub := range active {
		monthly := monthlyEquivalent(sub.Price, sub.Interval)

		p, ok := plans[sub.PlanID]
		if !ok {
			p = &resp.PlanRevenue{PlanName: sub.PlanName}
			plans[sub.PlanID] = p
		}
		p.Revenue += monthly
		p.Subscribers++

		platform := sub.PurchasePlatform
		if platform == "" {
			platform = "unknown"
		}
		pl, ok := platforms[platform]
		if !ok {
			pl = &resp.PlatformRevenue{Platform: platform}
			platforms[platform] = pl
		}
		pl.Revenue += monthly
		pl.Subscribers++
	}

	byPlan := make([]resp.PlanRevenue, 0, len(plans))
	for _, p := range plans {
		p.Revenue = utils.Round2(p.Revenue)
		byPlan = append(byPlan, *p)
	}
	sort.Slice(byPlan, func(i, j int) bool {
		if byPlan[i].Revenue != byPlan[j].Revenue {
			return byPlan[i].Revenue > byPlan[j].Revenue
		}
		return byPlan[i].PlanName < byPlan[j].PlanName
	})

	byPlatform := make([]resp.PlatformRevenue, 0, len(platforms))
	for _, p := range platforms {
		p.Revenue = utils.Round2(p.Revenue)
		byPlatform = append(byPlatform, *p)
	}
	sort.Slice(byPlatform, func(i, j int) bool { return byPlatform[i].Platform < byPlatform[j].Platform })

	// ---------- Churn ----------
	canceled, err := s.repo.CountCanceledInPeriod(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, dbError(err)
	}

	return &resp.RevenueAnalytics{
		RevenueByMonth:    byMonth,
		RevenueByPlan:     byPlan,
		RevenueByPlatform: byPlatform,
		ChurnRate:         utils.Percentage(canceled, int64(len(active))),
	}, nil
}

func (s *dashboardService) UserGrowth(ctx context.Context, months int) ([]resp.UserGrowthPoint, error) {
	ranges := utils.LastMonths(s.now(), normalizeMonths(months))
	out := make([]resp.UserGrowthPoint, 0, len(ranges))
	for _, m := range ranges {
		start, end := time.Unix(m.Start, 0), time.Unix(m.End, 0)
		newUsers, err := s.repo.CountNewUsers(ctx, start, end)
		if err != nil {
			return nil, dbError(err)
		}
		total, err := s.repo.CountUsersUntil(ctx, end)
		if err != nil {
			return nil, dbError(err)
		}
		out = append(out, resp.UserGrowthPoint{Month: m.Label, NewUsers: newUsers, TotalUsers: total})
	}
	return out, nil
}
