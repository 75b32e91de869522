// Package logger builds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"backoffice/internal/config"
)

// New returns a console logger in development and JSON elsewhere, and
// installs it as the global zerolog logger.
func New(cfg *config.Config) *zerolog.Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel

	switch cfg.Primary.Env {
	case "development":
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	case "test":
		level = zerolog.WarnLevel
	}

	l := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "backoffice").
		Str("env", cfg.Primary.Env).
		Logger()

	log.Logger = l
	return &l
}
