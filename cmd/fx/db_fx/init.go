package db_fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"backoffice/internal/config"
	"backoffice/internal/infra"
)

var Module = fx.Options(
	fx.Provide(provideDB),
	fx.Invoke(migrateAndSeed),
)

func provideDB(lc fx.Lifecycle, cfg *config.Config, logger *zerolog.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return db, nil
}

func migrateAndSeed(lc fx.Lifecycle, db *gorm.DB, cfg *config.Config, logger *zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := infra.Migrate(db); err != nil {
				return err
			}
			return infra.Seed(ctx, db, cfg, logger)
		},
	})
}
