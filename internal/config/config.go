package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the process-wide relay configuration. It is read once at startup
// and never mutated afterwards.
type Config struct {
	// Bearer credential for the upstream provider. Never logged.
	GroqAPIKey string `env:"GROQ_API_KEY"`
	// SSM SecureString parameter holding the credential, used when GroqAPIKey is empty.
	GroqAPIKeyParam string        `env:"GROQ_API_KEY_PARAM"`
	GroqBaseURL     string        `env:"GROQ_BASE_URL" env-default:"https://api.groq.com/openai/v1" validate:"required,url"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"30s" validate:"gt=0"`

	LogFormat string `env:"LOG_FORMAT" env-default:"json" validate:"oneof=json console"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`

	// Listen address of the local development server.
	HTTPAddr string `env:"HTTP_ADDR" env-default:":3000" validate:"required"`
}

// HasCredentialSource reports whether any credential source is configured.
func (c *Config) HasCredentialSource() bool {
	return strings.TrimSpace(c.GroqAPIKey) != "" || strings.TrimSpace(c.GroqAPIKeyParam) != ""
}

// SlogLevel maps LogLevel to a slog.Level.
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

// Load reads the configuration from the environment. When envFile is not
// empty it is loaded first; variables already present in the environment win.
// A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load env file %q: %w", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	cfg.GroqAPIKey = strings.TrimSpace(cfg.GroqAPIKey)
	cfg.GroqAPIKeyParam = strings.TrimSpace(cfg.GroqAPIKeyParam)
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}
