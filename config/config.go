package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	JWTSecret   string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTIssuer   string        `env:"JWT_ISSUER"   envDefault:"travel-auth"`
	JWTAudience string        `env:"JWT_AUDIENCE" envDefault:"travel-app"`
	JWTTTL      time.Duration `env:"JWT_TTL"      envDefault:"60m"`

	// Email sending is off by default; LogSender takes over and confirmation
	// links show up in the logs.
	EmailEnabled  bool   `env:"EMAIL_ENABLED" envDefault:"false"`
	ResendAPIKey  string `env:"RESEND_API_KEY"  validate:"required_if=EmailEnabled true"`
	EmailFrom     string `env:"EMAIL_FROM"      envDefault:"no-reply@travelapp.local" validate:"email"`
	EmailFromName string `env:"EMAIL_FROM_NAME" envDefault:"Travel App"`

	FrontendBaseURL string        `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:5173" validate:"url"`
	ConfirmTokenTTL time.Duration `env:"CONFIRM_TOKEN_TTL" envDefault:"24h"`

	JanitorSchedule string        `env:"JANITOR_SCHEDULE" envDefault:"@hourly"`
	JanitorGrace    time.Duration `env:"JANITOR_GRACE"    envDefault:"168h"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EmailFromHeader is the display form used as the From header.
func (c *Config) EmailFromHeader() string {
	return fmt.Sprintf("%s <%s>", c.EmailFromName, c.EmailFrom)
}
