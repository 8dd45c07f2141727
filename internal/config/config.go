package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	Media    MediaConfig    `mapstructure:"media"`
	Payment  PaymentConfig  `mapstructure:"payment"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`            // "development" or "production"
	CookieSecure   bool     `mapstructure:"cookie_secure"`   // Mark session cookies Secure
	AllowedOrigins []string `mapstructure:"allowed_origins"` // Browser origins allowed to make credentialed requests
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // "sqlite" or "postgres"
	DSN             string `mapstructure:"dsn"`               // Connection string
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // Maximum idle connections (Postgres)
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // Maximum open connections (Postgres)
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // Connection max lifetime in minutes (Postgres)
	LogLevel        string `mapstructure:"log_level"`         // GORM log level, defaults to log.level
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`     // Secret for JWT signing
	TokenTTL      time.Duration `mapstructure:"token_ttl"`      // Bearer token lifetime
	SessionTTL    time.Duration `mapstructure:"session_ttl"`    // Cookie session lifetime
	SessionCookie string        `mapstructure:"session_cookie"` // Cookie name
}

// SessionConfig selects the session store
type SessionConfig struct {
	Type       string `mapstructure:"type"`        // "memory" or "valkey"
	ValkeyAddr string `mapstructure:"valkey_addr"` // e.g., "localhost:6379"
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string `mapstructure:"format"` // "json" or "text"
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
}

// MediaConfig configures the media host used for attachments
type MediaConfig struct {
	Type            string `mapstructure:"type"` // "none" or "s3"
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"` // Optional S3-compatible endpoint
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	MaxUploadMB     int64  `mapstructure:"max_upload_mb"`
}

// PaymentConfig configures the payment processor
type PaymentConfig struct {
	Type      string `mapstructure:"type"` // "none" or "stripe"
	SecretKey string `mapstructure:"secret_key"`
	Currency  string `mapstructure:"currency"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./fundloop.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60) // 60 minutes
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	v.SetDefault("auth.session_cookie", "fundloop_session")
	v.SetDefault("session.type", "memory")
	v.SetDefault("session.valkey_addr", "localhost:6379")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("media.type", "none")
	v.SetDefault("media.region", "us-east-1")
	v.SetDefault("media.max_upload_mb", 10)
	v.SetDefault("payment.type", "none")
	v.SetDefault("payment.currency", "usd")

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/fundloop/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, using defaults
	}

	// Environment variables override
	v.SetEnvPrefix("FUNDLOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	if c.Server.Mode == "production" && c.Auth.JWTSecret == "change-me-in-production" {
		return fmt.Errorf("auth.jwt_secret must be changed in production mode")
	}
	switch c.Session.Type {
	case "memory", "valkey":
	default:
		return fmt.Errorf("unsupported session type: %s (supported: memory, valkey)", c.Session.Type)
	}
	switch c.Media.Type {
	case "none", "s3":
	default:
		return fmt.Errorf("unsupported media type: %s (supported: none, s3)", c.Media.Type)
	}
	switch c.Payment.Type {
	case "none", "stripe":
	default:
		return fmt.Errorf("unsupported payment type: %s (supported: none, stripe)", c.Payment.Type)
	}
	return nil
}
