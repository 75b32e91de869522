package response_models

import (
	"backoffice/internal/models/db_models"
	"backoffice/pkg/utils"
)

// Page is the list envelope used by the admin endpoints.
type Page[T any] struct {
	Data       []T              `json:"data"`
	Pagination utils.Pagination `json:"pagination"`
}

type WaitingListStats struct {
	Total      int64 `json:"total"`
	Last7Days  int64 `json:"last7Days"`
	Last30Days int64 `json:"last30Days"`
}

type TransactionStats struct {
	Total                int64                   `json:"total"`
	Completed            int64                   `json:"completed"`
	Pending              int64                   `json:"pending"`
	Failed               int64                   `json:"failed"`
	Refunded             int64                   `json:"refunded"`
	TotalRevenue         float64                 `json:"totalRevenue"`
	TotalRefunded        float64                 `json:"totalRefunded"`
	NetRevenue           float64                 `json:"netRevenue"`
	SuccessRate          float64                 `json:"successRate"`
	PlatformDistribution []CountItem             `json:"platformDistribution"`
	RecentTransactions   []db_models.Transaction `json:"recentTransactions"`
}

type AuditLogPage struct {
	Logs       []db_models.AuditLog `json:"logs"`
	Pagination utils.Pagination     `json:"pagination"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type AuditLogStats struct {
	TotalLogs            int64        `json:"totalLogs"`
	TopActions           []CountItem  `json:"topActions"`
	EntityTypes          []CountItem  `json:"entityTypes"`
	PlatformDistribution []CountItem  `json:"platformDistribution"`
	DailyTrend           []DailyCount `json:"dailyTrend"`
}

type EmailLogStats struct {
	Total       int64   `json:"total"`
	Sent        int64   `json:"sent"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"successRate"`
	Last7Days   int64   `json:"last7Days"`
}

type NotificationStats struct {
	Total    int64       `json:"total"`
	Unread   int64       `json:"unread"`
	Read     int64       `json:"read"`
	ReadRate float64     `json:"readRate"`
	ByType   []CountItem `json:"byType"`
}

type PushStats struct {
	Total      int64       `json:"total"`
	Sent       int64       `json:"sent"`
	Failed     int64       `json:"failed"`
	ByPlatform []CountItem `json:"byPlatform"`
}

type BulkPushResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type DeviceStats struct {
	Total        int64       `json:"total"`
	Active30Days int64       `json:"active30Days"`
	Banned       int64       `json:"banned"`
	ByPlatform   []CountItem `json:"byPlatform"`
}

type CheckUpdateResponse struct {
	UpdateAvailable   bool   `json:"updateAvailable"`
	ForceUpdate       bool   `json:"forceUpdate"`
	LatestVersion     string `json:"latestVersion"`
	LatestBuildNumber int    `json:"latestBuildNumber"`
	ReleaseNotes      string `json:"releaseNotes"`
}

type FlagView struct {
	Enabled  bool        `json:"enabled"`
	Metadata interface{} `json:"metadata"`
}

type CheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
