package config_fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/internal/config"
	"backoffice/internal/logger"
	"backoffice/pkg/observability"
	"backoffice/pkg/utils"
)

var Module = fx.Provide(
	config.Load,
	logger.New,
	observability.NewMetrics,
	provideJWTManager,
)

func provideJWTManager(cfg *config.Config, logger *zerolog.Logger) *utils.JWTManager {
	logger.Debug().Dur("ttl", cfg.TokenTTL()).Msg("jwt manager configured")
	return utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.TokenTTL())
}
