package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/vytor/lingoflash/internal/db"
)

type Config struct {
	Addr     string `env:"ADDR" env-default:":3000"`
	LogLevel string `env:"LOG_LEVEL" env-default:"INFO"`
	// text or json
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`

	DBDriver string `env:"DB_DRIVER" env-default:"sqlite3"`
	DBDSN    string `env:"DB_DSN" env-default:"file:lingoflash.db"`

	// Empty disables session analysis; sessions are still saved.
	WebhookURL     string        `env:"AI_WEBHOOK_URL"`
	WebhookTimeout time.Duration `env:"AI_WEBHOOK_TIMEOUT" env-default:"15s"`

	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`

	ImportMaxBytes int64 `env:"IMPORT_MAX_BYTES" env-default:"5242880"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults from struct tags, then validates the result.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}

	// The mobile app's deployment docs name the variable after the n8n workflow.
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = os.Getenv("N8N_WEBHOOK_URL")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field constraints.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	switch c.DBDriver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverSQLite, db.DriverPostgres, c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("DB_DSN cannot be empty")
	}
	if c.WebhookURL != "" && !strings.HasPrefix(c.WebhookURL, "http://") && !strings.HasPrefix(c.WebhookURL, "https://") {
		return fmt.Errorf("AI_WEBHOOK_URL must be an http(s) URL")
	}
	if c.WebhookTimeout <= 0 {
		return fmt.Errorf("AI_WEBHOOK_TIMEOUT must be positive")
	}
	if c.ImportMaxBytes <= 0 {
		return fmt.Errorf("IMPORT_MAX_BYTES must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
