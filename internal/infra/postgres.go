package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"backoffice/internal/config"
	"backoffice/internal/models/db_models"
)

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// GormConfig is shared by the postgres connection and the sqlite test harness.
func GormConfig(logger *zerolog.Logger, level string) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormLogLevel(level),
			IgnoreRecordNotFoundError: true,
		}),
	}
}

func InitPostgresql(cfg *config.Config, logger *zerolog.Logger) (*gorm.DB, error) {
	connectionPool, err := gorm.Open(postgres.Open(cfg.Database.DSN), GormConfig(logger, cfg.Database.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := connectionPool.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Info().Msg("connected to postgres")
	return connectionPool, nil
}

func ClosePostgresql(db *gorm.DB, logger *zerolog.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error().Err(err).Msg("get database instance")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error().Err(err).Msg("close database connection")
	} else {
		logger.Info().Msg("postgres connection closed")
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(db_models.AllModels()...)
}

// Ping checks that the database answers within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
