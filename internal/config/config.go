// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

// Package config loads SentinelGuard configuration from defaults, an optional
// YAML file, a .env file and environment variables, in that order of precedence
// (later layers win).
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
	StaticDir   string        `koanf:"static_dir"`  // served under /static; empty disables
}

// SecurityConfig holds authentication, authorization and rate limiting settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AccessTokenExpireMinutes overrides SessionTimeout when set (> 0).
	AccessTokenExpireMinutes int `koanf:"access_token_expire_minutes"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`

	// CasbinPolicyPath points at a policy CSV overriding the embedded one.
	CasbinPolicyPath string `koanf:"casbin_policy_path"`
}

// DatabaseConfig holds directory store settings.
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	InMemory     bool          `koanf:"in_memory"`
	SeedMockData bool          `koanf:"seed_mock_data"`
	GCInterval   time.Duration `koanf:"gc_interval"` // badger value log GC; 0 disables

	// DefaultRadiusMeters is used by nearby queries that omit a radius.
	DefaultRadiusMeters float64 `koanf:"default_radius_m"`
}

// AuditConfig controls the security audit trail.
type AuditConfig struct {
	Enabled         bool          `koanf:"enabled"`
	RetentionDays   int           `koanf:"retention_days"`   // 0 keeps events forever
	CleanupInterval time.Duration `koanf:"cleanup_interval"` // how often expired events are pruned
	BufferSize      int           `koanf:"buffer_size"`
	LogToStdout     bool          `koanf:"log_to_stdout"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
