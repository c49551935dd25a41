package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is only accepted when APP_ENV is development.
const DefaultJWTSecret = "change-me"

// MinJWTSecretLength is the shortest JWT_SECRET accepted outside development.
const MinJWTSecretLength = 32

// Config holds application level configuration.
type Config struct {
	AppPort string
	AppEnv  string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	JWTExpiration time.Duration

	LockoutMaxFailedAttempts int
	LockoutDuration          time.Duration

	RabbitMQURL string
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// SetDefaults registers the default value of every configuration key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "fornecedores.db")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "fornecedores-api")
	v.SetDefault("JWT_AUDIENCE", "https://localhost")
	v.SetDefault("JWT_EXPIRATION", "2h")
	v.SetDefault("LOCKOUT_MAX_FAILED_ATTEMPTS", 5)
	v.SetDefault("LOCKOUT_DURATION", "5m")
	v.SetDefault("RABBITMQ_URL", "")
}

// Load builds Config from defaults, an optional config.yaml and the environment.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:                  v.GetString("APP_PORT"),
		AppEnv:                   v.GetString("APP_ENV"),
		DatabaseDriver:           v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:              v.GetString("DATABASE_DSN"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		JWTIssuer:                v.GetString("JWT_ISSUER"),
		JWTAudience:              v.GetString("JWT_AUDIENCE"),
		JWTExpiration:            v.GetDuration("JWT_EXPIRATION"),
		LockoutMaxFailedAttempts: v.GetInt("LOCKOUT_MAX_FAILED_ATTEMPTS"),
		LockoutDuration:          v.GetDuration("LOCKOUT_DURATION"),
		RabbitMQURL:              v.GetString("RABBITMQ_URL"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.JWTExpiration <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION must be positive, got %s", cfg.JWTExpiration)
	}
	if cfg.LockoutMaxFailedAttempts <= 0 {
		return nil, fmt.Errorf("LOCKOUT_MAX_FAILED_ATTEMPTS must be positive, got %d", cfg.LockoutMaxFailedAttempts)
	}
	if !cfg.IsDevelopment() && (cfg.JWTSecret == DefaultJWTSecret || len(cfg.JWTSecret) < MinJWTSecretLength) {
		return nil, fmt.Errorf("JWT_SECRET must be set to at least %d bytes when APP_ENV is %q", MinJWTSecretLength, cfg.AppEnv)
	}
	return cfg, nil
}
