package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DefaultSQLitePath     = "./data/people.db"
	DefaultMigrationsPath = "./migrations"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required,oneof=development test staging production"`
	Port        string `validate:"required,numeric"`
	Log         LogConfig
	Database    DatabaseConfig
	RateLimit   RateLimitConfig
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"required,oneof=json text"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver           string `validate:"required,oneof=sqlite postgres"`
	ConnectionString string `validate:"required"`
	MigrationsPath   string `validate:"required"`
	AutoMigrate      bool
	BackupEnabled    bool
	MaxOpenConns     int `validate:"min=1"`
	MaxIdleConns     int `validate:"min=0,ltefield=MaxOpenConns"`
	ConnMaxLifetime  time.Duration
}

// RateLimitConfig holds per-client rate limiting; zero RPS disables it
type RateLimitConfig struct {
	RPS   float64 `validate:"gte=0"`
	Burst int     `validate:"gte=0"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_CONNECTION_STRING", DefaultSQLitePath)
	v.SetDefault("DB_MIGRATIONS_PATH", DefaultMigrationsPath)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_BACKUP_ENABLED", false)
	v.SetDefault("DB_MAX_OPEN_CONNS", 0)
	v.SetDefault("DB_MAX_IDLE_CONNS", -1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Database: DatabaseConfig{
			Driver:           strings.ToLower(v.GetString("DB_DRIVER")),
			ConnectionString: v.GetString("DB_CONNECTION_STRING"),
			MigrationsPath:   v.GetString("DB_MIGRATIONS_PATH"),
			AutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),
			BackupEnabled:    v.GetBool("DB_BACKUP_ENABLED"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:  v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if config.Database.Driver == "postgresql" {
		config.Database.Driver = "postgres"
	}
	config.Database.applyPoolDefaults()

	return config, nil
}

// applyPoolDefaults fills pool sizes left unset with per-driver values
func (d *DatabaseConfig) applyPoolDefaults() {
	if d.MaxOpenConns <= 0 {
		if d.Driver == "sqlite" {
			d.MaxOpenConns = 1 // SQLite works best with single connection
		} else {
			d.MaxOpenConns = 10
		}
	}
	if d.MaxIdleConns < 0 || d.MaxIdleConns > d.MaxOpenConns {
		d.MaxIdleConns = d.MaxOpenConns
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the application logger from the log configuration
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}

	return logger
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
