// Package config loads the service configuration from the environment.
//
// Variables use the BACKOFFICE_ prefix and a double underscore between
// nesting levels, e.g. BACKOFFICE_SERVER__PORT -> server.port. A .env file
// in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BACKOFFICE_"

type Config struct {
	Primary    Primary          `koanf:"primary" validate:"required"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database" validate:"required"`
	Redis      RedisConfig      `koanf:"redis"`
	Auth       AuthConfig       `koanf:"auth" validate:"required"`
	Admin      AdminConfig      `koanf:"admin"`
	Client     ClientConfig     `koanf:"client"`
	Google     GoogleConfig     `koanf:"google"`
	Stripe     StripeConfig     `koanf:"stripe"`
	RevenueCat RevenueCatConfig `koanf:"revenuecat"`
	Email      EmailConfig      `koanf:"email"`
	Jobs       JobsConfig       `koanf:"jobs"`
	Cache      CacheConfig      `koanf:"cache"`
	Scheduler  SchedulerConfig  `koanf:"scheduler"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=development staging production test"`
}

type ServerConfig struct {
	Port        string `koanf:"port"`
	CORSOrigins string `koanf:"cors_origins"` // comma separated, "*" when empty
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn" validate:"required"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"gte=0"`
	LogLevel     string `koanf:"log_level" validate:"omitempty,oneof=silent error warn info"`
}

type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
}

type AuthConfig struct {
	JWTSecret     string `koanf:"jwt_secret" validate:"required,min=16"`
	TokenTTLHours int    `koanf:"token_ttl_hours" validate:"gte=0"`
}

type AdminConfig struct {
	Email    string `koanf:"email" validate:"omitempty,email"`
	Password string `koanf:"password"`
}

type ClientConfig struct {
	Domain string `koanf:"domain"`
}

// GoogleConfig enables the browser OAuth flow at /auth/google when ClientID
// is set.
type GoogleConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url" validate:"omitempty,url"`
}

type StripeConfig struct {
	SecretKey     string `koanf:"secret_key"`
	WebhookSecret string `koanf:"webhook_secret"`
	SuccessURL    string `koanf:"success_url"`
	CancelURL     string `koanf:"cancel_url"`
}

type RevenueCatConfig struct {
	WebhookSecret string `koanf:"webhook_secret"`
}

type EmailConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	From         string `koanf:"from"`
}

type JobsConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency" validate:"gte=0"`
}

type CacheConfig struct {
	TTLSeconds int `koanf:"ttl_seconds" validate:"gte=0"`
	Size       int `koanf:"size" validate:"gte=0"`
}

type SchedulerConfig struct {
	ExpirySpec string `koanf:"expiry_spec"`
}

func (c *Config) IsProduction() bool { return c.Primary.Env == "production" }

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// AllowedOrigins splits the configured CORS origins.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.Server.CORSOrigins) == "" {
		return []string{"*"}
	}
	var out []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "36001"
	}
	if c.Auth.TokenTTLHours == 0 {
		c.Auth.TokenTTLHours = 60 * 24
	}
	if c.Client.Domain == "" {
		c.Client.Domain = "http://localhost:3000"
	}
	if c.Google.RedirectURL == "" {
		c.Google.RedirectURL = "http://localhost:" + c.Server.Port + "/auth/google/callback"
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}
	if c.Redis.Address == "" {
		c.Redis.Address = "localhost:6379"
	}
	if c.Email.From == "" {
		c.Email.From = "App Starter <info@example.com>"
	}
	if c.Jobs.Concurrency == 0 {
		c.Jobs.Concurrency = 10
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 30
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 512
	}
	if c.Scheduler.ExpirySpec == "" {
		c.Scheduler.ExpirySpec = "@every 1h"
	}
}

// Load reads the environment into a validated Config.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret == "" {
		return nil, fmt.Errorf("validate config: google.client_secret is required with google.client_id")
	}

	if cfg.Jobs.Enabled && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("validate config: redis.address is required when jobs are enabled")
	}

	return cfg, nil
}
