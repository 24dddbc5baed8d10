// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/subsidywatch/internal/utils"
)

// Supported dataset source kinds
const (
	SourceDir = "dir"
	SourceS3  = "s3"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Local record file directory (always absolute)
	Source         string // dir or s3
	S3             S3Config
	ReloadSchedule string // Cron spec for dataset reloads, empty disables
	CategoriesFile string // Optional YAML category overrides
	AllowedOrigins []string
	LogLevel       string
	Port           int
	DevMode        bool
}

// S3Config holds the S3-compatible storage settings
type S3Config struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read reads configuration from environment variables without validating it.
// Tools that only need a subset (the CLI reads DataDir and CategoriesFile)
// use it directly.
func Read() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("SUBSIDY_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	cfg := &Config{
		DataDir: dataDir,
		Source:  getEnv("SUBSIDY_SOURCE", SourceDir),
		S3: S3Config{
			Bucket:    getEnv("SUBSIDY_S3_BUCKET", ""),
			Prefix:    getEnv("SUBSIDY_S3_PREFIX", ""),
			Endpoint:  getEnv("SUBSIDY_S3_ENDPOINT", ""),
			Region:    getEnv("SUBSIDY_S3_REGION", ""),
			AccessKey: getEnv("SUBSIDY_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("SUBSIDY_S3_SECRET_KEY", ""),
		},
		ReloadSchedule: getEnvAllowEmpty("SUBSIDY_RELOAD_SCHEDULE", "@every 15m"),
		CategoriesFile: getEnv("SUBSIDY_CATEGORIES_FILE", ""),
		AllowedOrigins: utils.ParseCSV(getEnv("SUBSIDY_ALLOWED_ORIGINS", "*")),
		Port:           getEnvAsInt("GO_PORT", 8001),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	switch c.Source {
	case SourceDir:
		if c.DataDir == "" {
			return fmt.Errorf("data directory required for %q source", SourceDir)
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("SUBSIDY_S3_BUCKET required for %q source", SourceS3)
		}
	default:
		return fmt.Errorf("unknown dataset source %q (expected %q or %q)", c.Source, SourceDir, SourceS3)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty distinguishes an unset variable from one set to ""
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
