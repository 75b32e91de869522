package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"backoffice/cmd/fx/account_fx"
	"backoffice/cmd/fx/analytics_fx"
	"backoffice/cmd/fx/audit_fx"
	"backoffice/cmd/fx/config_fx"
	"backoffice/cmd/fx/controllers_fx"
	"backoffice/cmd/fx/db_fx"
	"backoffice/cmd/fx/mail_fx"
	"backoffice/cmd/fx/memcache_fx"
	"backoffice/cmd/fx/mobile_fx"
	"backoffice/cmd/fx/notification_fx"
	"backoffice/cmd/fx/payment_service_fx"
	"backoffice/cmd/fx/repository_fx"
	"backoffice/cmd/fx/scheduler_fx"
	"backoffice/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		repository_fx.Module,
		memcache_fx.Module,
		audit_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		payment_service_fx.Module,
		notification_fx.Module,
		mobile_fx.Module,
		analytics_fx.Module,
		controllers_fx.Module,
		scheduler_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zerolog.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("Starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal().Err(err).Msg("HTTP server stopped unexpectedly")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
