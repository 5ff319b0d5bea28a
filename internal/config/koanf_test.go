// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "k3v9Qm2LrT8wZx4Hn6Yp1Fs7Bd5Gc0Ja"

// isolateEnv points config discovery at an empty temp dir and clears the
// variables these tests depend on.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	t.Setenv(DotenvPathEnvVar, filepath.Join(dir, "missing.env"))
	for _, key := range []string{
		"JWT_SECRET", "JWT_SECRET_KEY", "HTTP_PORT", "LOG_LEVEL", "LOG_FORMAT",
		"CORS_ORIGINS", "ENVIRONMENT", "ACCESS_TOKEN_EXPIRE_MINUTES", "SESSION_TIMEOUT",
		"DATABASE_PATH", "DATABASE_IN_MEMORY", "SEED_MOCK_DATA",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	oldPaths := DefaultConfigPaths
	DefaultConfigPaths = []string{filepath.Join(dir, "config.yaml")}
	t.Cleanup(func() { DefaultConfigPaths = oldPaths })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Security.SessionTimeout != 30*time.Minute {
		t.Errorf("Security.SessionTimeout = %v, want 30m", cfg.Security.SessionTimeout)
	}
	if len(cfg.Security.CORSOrigins) != 2 {
		t.Errorf("Security.CORSOrigins = %v, want the two dashboard dev origins", cfg.Security.CORSOrigins)
	}
	if cfg.Database.DefaultRadiusMeters != 1000 {
		t.Errorf("Database.DefaultRadiusMeters = %v, want 1000", cfg.Database.DefaultRadiusMeters)
	}
	if !cfg.Audit.Enabled || cfg.Audit.RetentionDays != 90 {
		t.Errorf("Audit = %+v, want enabled with 90 day retention", cfg.Audit)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"JWT_SECRET_KEY", "security.jwt_secret"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"ACCESS_TOKEN_EXPIRE_MINUTES", "security.access_token_expire_minutes"},
		{"HTTP_PORT", "server.port"},
		{"DATABASE_PATH", "database.path"},
		{"log_level", "logging.level"},
		{"AUDIT_RETENTION_DAYS", "audit.retention_days"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadWithKoanf_EnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("JWT_SECRET_KEY", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Security.JWTSecret != testSecret {
		t.Errorf("JWTSecret not loaded from env")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.org" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Security.SessionTimeout != 45*time.Minute {
		t.Errorf("SessionTimeout = %v, want 45m", cfg.Security.SessionTimeout)
	}
}

func TestLoadWithKoanf_ConfigFileAndEnvOverride(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 7000
  environment: staging
security:
  jwt_secret: ` + testSecret + `
  session_timeout: 10m
database:
  path: /var/lib/sentinelguard
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Security.SessionTimeout != 10*time.Minute {
		t.Errorf("SessionTimeout = %v, want 10m from file", cfg.Security.SessionTimeout)
	}
	if cfg.Database.Path != "/var/lib/sentinelguard" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want env override error", cfg.Logging.Level)
	}
}

func TestLoadWithKoanf_Dotenv(t *testing.T) {
	dir := isolateEnv(t)
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("JWT_SECRET_KEY="+testSecret+"\nLOG_FORMAT=console\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(DotenvPathEnvVar, dotenv)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Security.JWTSecret != testSecret {
		t.Error("JWTSecret not loaded from .env")
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console from .env", cfg.Logging.Format)
	}
}

func TestLoadWithKoanf_MissingSecret(t *testing.T) {
	isolateEnv(t)

	_, err := LoadWithKoanf()
	if err == nil {
		t.Fatal("LoadWithKoanf() expected error without JWT secret")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET_KEY") {
		t.Errorf("error = %v, want mention of JWT_SECRET_KEY", err)
	}
}
