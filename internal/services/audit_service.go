package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/response_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

// AuditEntry is one audit row before it is stored.
type AuditEntry struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	EntityID   string
	IPAddress  string
	UserAgent  string
	Platform   string
	Metadata   map[string]interface{}
}

// Actor is who performed an action, as seen by the HTTP layer.
type Actor struct {
	UserID    *uuid.UUID
	IPAddress string
	UserAgent string
	Platform  string
}

func (a Actor) entry(action, entityType, entityID string, metadata map[string]interface{}) AuditEntry {
	return AuditEntry{
		UserID:     a.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  a.IPAddress,
		UserAgent:  a.UserAgent,
		Platform:   a.Platform,
		Metadata:   metadata,
	}
}

type AuditServiceInterface interface {
	Record(ctx context.Context, entry AuditEntry) error
	ListLogs(ctx context.Context, filter repositories.AuditLogFilter, page, limit int) (*response_models.AuditLogPage, error)
	GetLog(ctx context.Context, id uuid.UUID) (*db_models.AuditLog, error)
	Stats(ctx context.Context, days int) (*response_models.AuditLogStats, error)
}

type AuditService struct {
	auditRepo repositories.AuditLogRepository
	now       func() time.Time
}

func NewAuditService(auditRepo repositories.AuditLogRepository) AuditServiceInterface {
	return &AuditService{auditRepo: auditRepo, now: time.Now}
}

func (a *AuditService) Record(ctx context.Context, entry AuditEntry) error {
	platform := entry.Platform
	if platform == "" {
		platform = db_models.PlatformWeb
	}
	row := &db_models.AuditLog{
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Platform:   platform,
	}
	if entry.Metadata != nil {
		row.Metadata = mustJSON(entry.Metadata)
	}
	if err := a.auditRepo.Create(ctx, row); err != nil {
		return dbError(err)
	}
	return nil
}

func (a *AuditService) ListLogs(ctx context.Context, filter repositories.AuditLogFilter, page, limit int) (*response_models.AuditLogPage, error) {
	logs, total, err := a.auditRepo.List(ctx, filter, pageOf(page, limit))
	if err != nil {
		return nil, dbError(err)
	}
	return &response_models.AuditLogPage{
		Logs:       logs,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func (a *AuditService) GetLog(ctx context.Context, id uuid.UUID) (*db_models.AuditLog, error) {
	entry, err := a.auditRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if entry == nil {
		return nil, utils.ErrAuditLogNotFound
	}
	return entry, nil
}

func (a *AuditService) Stats(ctx context.Context, days int) (*response_models.AuditLogStats, error) {
	if days <= 0 {
		days = 30
	}
	since := utils.DaysAgo(a.now(), days)

	total, err := a.auditRepo.CountSince(ctx, since)
	if err != nil {
		return nil, dbError(err)
	}
	actions, err := a.auditRepo.GroupSince(ctx, "action", since, 10)
	if err != nil {
		return nil, dbError(err)
	}
	entities, err := a.auditRepo.GroupSince(ctx, "entity_type", since, 0)
	if err != nil {
		return nil, dbError(err)
	}
	platforms, err := a.auditRepo.GroupSince(ctx, "platform", since, 0)
	if err != nil {
		return nil, dbError(err)
	}
	stamps, err := a.auditRepo.TimestampsSince(ctx, since)
	if err != nil {
		return nil, dbError(err)
	}

	return &response_models.AuditLogStats{
		TotalLogs:            total,
		TopActions:           toCountItems(actions),
		EntityTypes:          toCountItems(entities),
		PlatformDistribution: toCountItems(platforms),
		DailyTrend:           dailyTrend(stamps),
	}, nil
}

// dailyTrend buckets unix timestamps by UTC day, oldest first.
func dailyTrend(stamps []int64) []response_models.DailyCount {
	counts := make(map[string]int64)
	for _, ts := range stamps {
		counts[utils.DayLabel(ts)]++
	}
	out := make([]response_models.DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, response_models.DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func toCountItems(rows []repositories.CountRow) []response_models.CountItem {
	out := make([]response_models.CountItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, response_models.CountItem{Key: r.Key, Count: r.Count})
	}
	return out
}
