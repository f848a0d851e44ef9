// Package config loads the process configuration once at startup.
// Business logic never reads the environment directly; the loaded struct is
// passed by reference into the constructors that need it.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMisconfigured is returned when a setting required for secure operation
// is absent. The server refuses to start rather than run insecurely.
var ErrMisconfigured = errors.New("server misconfiguration")

// Config holds every environment-sourced setting of the server.
type Config struct {
	// Port is the HTTP listening port.
	Port string `env:"PORT" envDefault:"4000"`

	// Environment selects cookie hardening ("production" enables Secure +
	// SameSite=None for the cross-origin frontend).
	Environment string `env:"APP_ENV" envDefault:"development"`

	// FrontendOrigin is the allowed CORS origin for credentialed requests.
	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`

	// JWTSecret signs session tokens. Required: token operations fail closed
	// without it.
	JWTSecret string `env:"JWT_SECRET"`

	// SenderEmail is the from-address for all outgoing mail. Required.
	SenderEmail string `env:"SENDER_EMAIL"`

	// PostmarkServerToken and PostmarkAccountToken select the real mail
	// transport. When the server token is empty, the dev sender (log only)
	// is used instead.
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	// MailTimeoutSeconds bounds a single send attempt.
	MailTimeoutSeconds int `env:"MAIL_TIMEOUT_SECONDS" envDefault:"10"`

	// Database connection settings.
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBName     string `env:"DB_NAME" envDefault:"auth"`

	// InstanceConnectionName switches the DSN to a Cloud SQL unix socket.
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	// RunMigrations enables AutoMigrate at boot.
	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"false"`

	// Redis settings. An empty host disables the user cache.
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

// Load reads .env (when present) and the process environment into a Config.
func Load() (*Config, error) {
	// .env is optional; system environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings without which the server must not start.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is not set", ErrMisconfigured)
	}
	if c.SenderEmail == "" {
		return fmt.Errorf("%w: SENDER_EMAIL is not set", ErrMisconfigured)
	}
	return nil
}

// IsProduction reports whether production cookie hardening applies.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
