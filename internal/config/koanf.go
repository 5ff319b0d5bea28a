// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sentinelguard/config.yaml",
	"/etc/sentinelguard/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotenvPathEnvVar overrides the .env location.
const DotenvPathEnvVar = "DOTENV_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
			StaticDir:   "static",
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			SessionTimeout:    30 * time.Minute,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"http://localhost:3000", "http://localhost:5173"},
			TrustedProxies:    []string{},
		},
		Database: DatabaseConfig{
			Path:                "data/sentinelguard",
			InMemory:            false,
			SeedMockData:        false,
			GCInterval:          10 * time.Minute,
			DefaultRadiusMeters: 1000,
		},
		Audit: AuditConfig{
			Enabled:         true,
			RetentionDays:   90,
			CleanupInterval: 24 * time.Hour,
			BufferSize:      1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf builds the configuration from four layers:
//
//  1. struct defaults
//  2. YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. .env file, merged into the process environment without overriding it
//  4. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Security.AccessTokenExpireMinutes > 0 {
		cfg.Security.SessionTimeout = time.Duration(cfg.Security.AccessTokenExpireMinutes) * time.Minute
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadDotenv reads .env (or DOTENV_PATH). A missing file is not an error.
// Variables already present in the environment are left untouched.
func loadDotenv() error {
	path := os.Getenv(DotenvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields splits comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",
	"static_dir":   "server.static_dir",

	"jwt_secret":                  "security.jwt_secret",
	"jwt_secret_key":              "security.jwt_secret",
	"session_timeout":             "security.session_timeout",
	"access_token_expire_minutes": "security.access_token_expire_minutes",
	"rate_limit_requests":         "security.rate_limit_reqs",
	"rate_limit_window":           "security.rate_limit_window",
	"disable_rate_limit":          "security.rate_limit_disabled",
	"cors_origins":                "security.cors_origins",
	"trusted_proxies":             "security.trusted_proxies",
	"casbin_policy_path":          "security.casbin_policy_path",

	"database_path":         "database.path",
	"database_in_memory":    "database.in_memory",
	"seed_mock_data":        "database.seed_mock_data",
	"database_gc_interval":  "database.gc_interval",
	"default_radius_meters": "database.default_radius_m",

	"audit_enabled":          "audit.enabled",
	"audit_retention_days":   "audit.retention_days",
	"audit_cleanup_interval": "audit.cleanup_interval",
	"audit_buffer_size":      "audit.buffer_size",
	"audit_log_to_stdout":    "audit.log_to_stdout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known environment variables onto config keys.
// Unknown variables return "" and are ignored by koanf.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
