package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var; an optional .env file is read first.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`

	// Database. DatabaseURL wins when set; otherwise the DB_* parts are used.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      int    `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBSSLMode   string `mapstructure:"DB_SSLMODE"`

	// Redis
	RedisURL        string        `mapstructure:"REDIS_URL"`
	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`

	// RabbitMQ, optional. Empty disables the AMQP operator channel.
	AMQPURL string `mapstructure:"AMQP_URL"`

	// SMTP
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUser      string `mapstructure:"SMTP_USER"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	OperatorEmail string `mapstructure:"OPERATOR_EMAIL"`

	// Business
	BusinessTimezone string `mapstructure:"BUSINESS_TIMEZONE"`
	PDFStoragePath   string `mapstructure:"PDF_STORAGE_PATH"`

	// Weekly archive
	ArchiveBackupPath    string        `mapstructure:"ARCHIVE_BACKUP_PATH"`
	ArchiveWeekday       int           `mapstructure:"ARCHIVE_WEEKDAY"` // 0 = Sunday
	ArchiveHour          int           `mapstructure:"ARCHIVE_HOUR"`
	ArchiveRetries       int           `mapstructure:"ARCHIVE_RETRIES"` // runs after the first
	ArchiveRetryDelay    time.Duration `mapstructure:"ARCHIVE_RETRY_DELAY"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 4)
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "hygpos")
	viper.SetDefault("DB_PASSWORD", "hygpos")
	viper.SetDefault("DB_NAME", "hygpos")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CATALOG_CACHE_TTL", "10m")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("OPERATOR_EMAIL", "")
	viper.SetDefault("BUSINESS_TIMEZONE", "America/Argentina/Buenos_Aires")
	viper.SetDefault("PDF_STORAGE_PATH", "/tmp/hygpos/pdfs")
	viper.SetDefault("ARCHIVE_BACKUP_PATH", "/tmp/hygpos/backups")
	viper.SetDefault("ARCHIVE_WEEKDAY", 1)
	viper.SetDefault("ARCHIVE_HOUR", 4)
	viper.SetDefault("ARCHIVE_RETRIES", 3)
	viper.SetDefault("ARCHIVE_RETRY_DELAY", "60s")

	// Optional .env file for local development; a missing file is fine
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.ArchiveWeekday < 0 || cfg.ArchiveWeekday > 6 {
		return nil, fmt.Errorf("ARCHIVE_WEEKDAY must be 0..6, got %d", cfg.ArchiveWeekday)
	}
	if cfg.ArchiveHour < 0 || cfg.ArchiveHour > 23 {
		return nil, fmt.Errorf("ARCHIVE_HOUR must be 0..23, got %d", cfg.ArchiveHour)
	}
	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Location resolves BUSINESS_TIMEZONE, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
