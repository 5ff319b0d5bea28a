// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package authz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// setupEnforcer creates an enforcer over the embedded policy and registers cleanup.
func setupEnforcer(t *testing.T, config *EnforcerConfig) *Enforcer {
	t.Helper()
	enforcer, err := NewEnforcer(context.Background(), config)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)
	return enforcer
}

// writePolicyFile writes content to policy.csv in a temp dir and returns the path.
func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write policy file: %v", err)
	}
	return path
}

func TestEnforcer_RolePermissions(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	tests := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"Viewer", "/api/dashboard/devices", "read", true},
		{"Viewer", "/api/map/devices/nearby", "read", true},
		{"Viewer", "/api/map/filters", "write", true},
		{"Viewer", "/api/dashboard/devices", "write", false},
		{"Viewer", "/api/camera/images/IMG-1/tag", "write", false},
		{"Viewer", "/api/dashboard/devices/MAG-001-A", "delete", false},

		{"Operator", "/api/dashboard/devices", "read", true},
		{"Operator", "/api/dashboard/devices", "write", true},
		{"Operator", "/api/camera/images/IMG-1/notes", "write", true},
		{"Operator", "/api/dashboard/alerts/a1", "delete", true},

		{"Supervisor", "/api/dashboard/overview", "read", true},
		{"Supervisor", "/api/dashboard/alerts/a1/ack", "write", true},

		{"Operator", "/metrics", "read", false},
		{"Intruder", "/api/dashboard/devices", "read", false},
		{"", "/api/dashboard/devices", "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.object, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%q, %q, %q) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforcer_RoleHierarchy(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	roles, err := e.GetImplicitRolesForUser("Supervisor")
	if err != nil {
		t.Fatalf("GetImplicitRolesForUser() error = %v", err)
	}
	for _, want := range []string{"Operator", "Viewer"} {
		if !slices.Contains(roles, want) {
			t.Errorf("GetImplicitRolesForUser(Supervisor) = %v, missing %q", roles, want)
		}
	}

	direct, err := e.GetRolesForUser("Operator")
	if err != nil {
		t.Fatalf("GetRolesForUser() error = %v", err)
	}
	if !slices.Equal(direct, []string{"Viewer"}) {
		t.Errorf("GetRolesForUser(Operator) = %v, want [Viewer]", direct)
	}
}

func TestEnforcer_EnforceWithRoles(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	tests := []struct {
		name    string
		subject string
		roles   []string
		action  string
		want    bool
	}{
		{"role grants read", "user:alice", []string{"Viewer"}, "read", true},
		{"role denies write", "user:alice", []string{"Viewer"}, "write", false},
		{"second role grants write", "user:bob", []string{"Viewer", "Operator"}, "write", true},
		{"no roles", "user:carol", nil, "read", false},
		{"subject that is a role name", "Operator", nil, "write", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EnforceWithRoles(tt.subject, tt.roles, "/api/dashboard/devices", tt.action)
			if err != nil {
				t.Fatalf("EnforceWithRoles() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EnforceWithRoles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnforcer_CachesDecisions(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, &EnforcerConfig{CacheEnabled: true, CacheTTL: time.Minute})

	for range 3 {
		if _, err := e.EnforceRole("Viewer", "/api/map/overlays", "read"); err != nil {
			t.Fatalf("EnforceRole() error = %v", err)
		}
	}
	if got := e.cache.size(); got != 1 {
		t.Errorf("cache size = %d, want 1", got)
	}
	if allowed, ok := e.cache.get("Viewer", "/api/map/overlays", "read"); !ok || !allowed {
		t.Errorf("cache.get() = (%v, %v), want (true, true)", allowed, ok)
	}
}

func TestEnforcer_CacheDisabled(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, &EnforcerConfig{})

	if e.cache != nil {
		t.Error("cache should be nil when CacheEnabled is false")
	}
	if allowed, err := e.Enforce("Viewer", "/api/map/overlays", "read"); err != nil || !allowed {
		t.Errorf("Enforce() = (%v, %v), want (true, nil)", allowed, err)
	}
}

func TestDefaultEnforcerConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultEnforcerConfig()

	if !cfg.AutoReload {
		t.Error("AutoReload should default to true")
	}
	if cfg.ReloadInterval != 30*time.Second {
		t.Errorf("ReloadInterval = %v, want 30s", cfg.ReloadInterval)
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled should default to true")
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
}

func TestEnforcer_EmbeddedPolicyLoaded(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	if got := len(e.GetPolicy()); got != 5 {
		t.Errorf("len(GetPolicy()) = %d, want 5", got)
	}
	if got := len(e.GetGroupingPolicy()); got != 2 {
		t.Errorf("len(GetGroupingPolicy()) = %d, want 2", got)
	}
}

func TestEnforcer_AuditRestrictedToSupervisor(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	tests := []struct {
		role string
		want bool
	}{
		{"Supervisor", true},
		{"Operator", false},
		{"Viewer", false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(tt.role, "/api/audit/events", "audit")
		if err != nil {
			t.Fatalf("Enforce(%s) error = %v", tt.role, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%s, /api/audit/events, audit) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestEnforcer_FileBasedPolicy(t *testing.T) {
	t.Parallel()
	path := writePolicyFile(t, "p, Viewer, /api/map/*, read\n")
	e := setupEnforcer(t, &EnforcerConfig{PolicyPath: path})

	if allowed, _ := e.Enforce("Viewer", "/api/map/devices", "read"); !allowed {
		t.Error("file policy should allow Viewer to read /api/map/devices")
	}
	if allowed, _ := e.Enforce("Viewer", "/api/dashboard/devices", "read"); allowed {
		t.Error("file policy should replace the embedded policy")
	}
}

func TestEnforcer_LoadPolicy(t *testing.T) {
	t.Parallel()

	t.Run("no adapter", func(t *testing.T) {
		e := setupEnforcer(t, nil)
		if err := e.LoadPolicy(); !errors.Is(err, ErrNoAdapter) {
			t.Errorf("LoadPolicy() error = %v, want ErrNoAdapter", err)
		}
	})

	t.Run("reload clears cache", func(t *testing.T) {
		path := writePolicyFile(t, "p, Viewer, /api/*, read\n")
		e := setupEnforcer(t, &EnforcerConfig{PolicyPath: path, CacheEnabled: true, CacheTTL: time.Minute})

		if allowed, _ := e.Enforce("Viewer", "/api/map/devices", "read"); !allowed {
			t.Fatal("initial policy should allow read")
		}

		if err := os.WriteFile(path, []byte("p, Operator, /api/*, read\n"), 0o600); err != nil {
			t.Fatalf("failed to rewrite policy: %v", err)
		}
		if err := e.LoadPolicy(); err != nil {
			t.Fatalf("LoadPolicy() error = %v", err)
		}

		if allowed, _ := e.Enforce("Viewer", "/api/map/devices", "read"); allowed {
			t.Error("reloaded policy should deny Viewer; stale cache entry was used")
		}
	})
}

func TestEnforcer_ModelFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "model.conf")
	if err := os.WriteFile(path, []byte(embeddedModel), 0o600); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}
	e := setupEnforcer(t, &EnforcerConfig{ModelPath: path})

	if allowed, _ := e.Enforce("Supervisor", "/api/dashboard/devices", "write"); !allowed {
		t.Error("Supervisor should inherit write from Operator")
	}
}

func TestEnforcer_MissingModelFileFallsBack(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, &EnforcerConfig{ModelPath: "/nonexistent/model.conf"})

	if allowed, _ := e.Enforce("Viewer", "/api/dashboard/devices", "read"); !allowed {
		t.Error("embedded model should be used when the model file is missing")
	}
}

func TestEnforcer_InvalidModelFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "model.conf")
	if err := os.WriteFile(path, []byte("[request_definition]\nr = \n"), 0o600); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}
	if _, err := NewEnforcer(context.Background(), &EnforcerConfig{ModelPath: path}); err == nil {
		t.Error("NewEnforcer() with broken model should fail")
	}
}

func TestLoadEmbeddedPolicy_SkipsCommentsAndShortLines(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, &EnforcerConfig{})

	policy := "# comment\n\np\np, Viewer, /api/x\ng, Auditor, Viewer\n"
	if err := loadEmbeddedPolicy(e.enforcer, policy); err != nil {
		t.Fatalf("loadEmbeddedPolicy() error = %v", err)
	}
	if allowed, _ := e.Enforce("Auditor", "/api/map/devices", "read"); !allowed {
		t.Error("Auditor should inherit Viewer read")
	}
	if got := len(e.GetPolicy()); got != 5 {
		t.Errorf("len(GetPolicy()) = %d, want 5 (short p line ignored)", got)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()
	path := writePolicyFile(t, "")

	if !fileExists(path) {
		t.Errorf("fileExists(%q) = false, want true", path)
	}
	if fileExists(filepath.Join(filepath.Dir(path), "missing.csv")) {
		t.Error("fileExists(missing) = true, want false")
	}
}

func TestEnforcer_CloseIdempotent(t *testing.T) {
	t.Parallel()
	e, err := NewEnforcer(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	e.Close()
	e.Close()
}
