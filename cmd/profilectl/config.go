package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// DefaultStorePath is where the profile collection lives when nothing else is configured
const DefaultStorePath = "resources/data/users.json"

// Config holds the profilectl configuration
type Config struct {
	// Storage settings
	StorePath string `json:"store_path" env:"PROFILECTL_STORE_PATH"`           // Path to the profile collection file
	LockStore bool   `json:"lock_store,omitempty" env:"PROFILECTL_LOCK_STORE"` // Take an advisory lock around every read and write
	RedisURL  string `json:"redis_url,omitempty" env:"PROFILECTL_REDIS_URL"`   // Optional: keep the collection in Redis instead of a file
	RedisKey  string `json:"redis_key,omitempty" env:"PROFILECTL_REDIS_KEY"`

	// Logging settings
	AppLogPath   string `json:"app_log_path,omitempty" env:"PROFILECTL_APP_LOG"`     // Optional: application log file, stdout if empty
	AuditLogPath string `json:"audit_log_path,omitempty" env:"PROFILECTL_AUDIT_LOG"` // Optional: profile event log
	LogLevel     string `json:"log_level,omitempty" env:"PROFILECTL_LOG_LEVEL"`
}

// LoadConfig fills config from the JSON file at path (skipped when path is
// empty), then from PROFILECTL_* environment variables, then defaults.
func LoadConfig(path string, config *Config) error {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}

		// Relative paths are relative to the config file
		configDir := filepath.Dir(path)
		config.StorePath = resolvePath(configDir, config.StorePath)
		config.AppLogPath = resolvePath(configDir, config.AppLogPath)
		config.AuditLogPath = resolvePath(configDir, config.AuditLogPath)
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	if config.StorePath == "" {
		config.StorePath = DefaultStorePath
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	return nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
