// Package config provides configuration management for the match predictor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Dataset    DatasetConfig    `mapstructure:"dataset" validate:"required"`
	Features   FeaturesConfig   `mapstructure:"features" validate:"required"`
	Training   TrainingConfig   `mapstructure:"training" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Health     HealthConfig     `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatasetConfig describes where the match dataset comes from
type DatasetConfig struct {
	Source            string  `mapstructure:"source" validate:"required,oneof=csv http"`
	Path              string  `mapstructure:"path"`
	URL               string  `mapstructure:"url" validate:"omitempty,url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Competition       string  `mapstructure:"competition"`
}

// FeaturesConfig controls rolling feature construction
type FeaturesConfig struct {
	Window int `mapstructure:"window" validate:"required,gt=0"`
}

// TrainingConfig controls the training pipeline and the forest it fits
type TrainingConfig struct {
	CutoffDate      string `mapstructure:"cutoff_date" validate:"required,datetime=2006-01-02"`
	Trees           int    `mapstructure:"trees" validate:"required,gt=0"`
	MinSamplesSplit int    `mapstructure:"min_samples_split" validate:"required,gt=1"`
	Seed            int64  `mapstructure:"seed"`
}

// PredictionConfig controls the prediction cache
type PredictionConfig struct {
	CacheTTLMinutes     int `mapstructure:"cache_ttl_minutes" validate:"gte=0"`
	CacheCleanupMinutes int `mapstructure:"cache_cleanup_minutes" validate:"gte=0"`
}

// DatabaseConfig represents optional PostgreSQL persistence configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"omitempty,gte=0"`
}

// SchedulerConfig controls the cron-driven refresh jobs
type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	IngestCron  string `mapstructure:"ingest_cron" validate:"omitempty,cronspec"`
	RetrainCron string `mapstructure:"retrain_cron" validate:"omitempty,cronspec"`
}

// HealthConfig controls the health and metrics HTTP listener
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CutoffTime parses the training cutoff date
func (c *Config) CutoffTime() (time.Time, error) {
	cutoff, err := time.Parse("2006-01-02", c.Training.CutoffDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid training cutoff_date %q: %w", c.Training.CutoffDate, err)
	}
	return cutoff.UTC(), nil
}

// CacheTTL returns the prediction cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Prediction.CacheTTLMinutes) * time.Minute
}

// CacheCleanupInterval returns the prediction cache sweep interval as a duration
func (c *Config) CacheCleanupInterval() time.Duration {
	return time.Duration(c.Prediction.CacheCleanupMinutes) * time.Minute
}
