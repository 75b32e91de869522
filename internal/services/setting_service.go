package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
)

const (
	waitingPageStatusKey     = "waiting_page_status"
	defaultWaitingPageStatus = "inactive"
)

var generalSettingKeys = []string{"site_title", "site_description", "site_icon"}

type SettingServiceInterface interface {
	General(ctx context.Context) (map[string]string, error)
	UpdateGeneral(ctx context.Context, items []request_models.SettingItem) (map[string]string, error)
	WaitingPageStatus(ctx context.Context) (string, error)
	SetWaitingPageStatus(ctx context.Context, status string) (string, error)
}

type SettingService struct {
	settingRepo repositories.SettingRepository
	logger      *zerolog.Logger
}

func NewSettingService(settingRepo repositories.SettingRepository, logger *zerolog.Logger) SettingServiceInterface {
	return &SettingService{settingRepo: settingRepo, logger: logger}
}

func (s *SettingService) General(ctx context.Context) (map[string]string, error) {
	stored, err := s.settingRepo.GetMany(ctx, generalSettingKeys)
	if err != nil {
		return nil, dbError(err)
	}
	out := make(map[string]string, len(generalSettingKeys))
	for _, key := range generalSettingKeys {
		out[key] = stored[key]
	}
	return out, nil
}

// settingValue renders a JSON value as stored text. Strings lose their quotes;
// numbers, booleans and objects keep their literal form. ok is false for null.
func settingValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, true
	}
	return string(raw), true
}

func (s *SettingService) UpdateGeneral(ctx context.Context, items []request_models.SettingItem) (map[string]string, error) {
	for _, item := range items {
		value, ok := settingValue(item.Value)
		if !ok {
			s.logger.Warn().Str("key", item.Key).Msg("setting value missing, skipped")
			continue
		}
		if err := s.settingRepo.Upsert(ctx, item.Key, value); err != nil {
			return nil, dbError(err)
		}
	}
	return s.General(ctx)
}

func (s *SettingService) WaitingPageStatus(ctx context.Context) (string, error) {
	stored, err := s.settingRepo.GetMany(ctx, []string{waitingPageStatusKey})
	if err != nil {
		return "", dbError(err)
	}
	if v, ok := stored[waitingPageStatusKey]; ok {
		return v, nil
	}
	return defaultWaitingPageStatus, nil
}

func (s *SettingService) SetWaitingPageStatus(ctx context.Context, status string) (string, error) {
	if err := s.settingRepo.Upsert(ctx, waitingPageStatusKey, status); err != nil {
		return "", dbError(err)
	}
	return status, nil
}
