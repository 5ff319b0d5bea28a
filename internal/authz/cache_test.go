// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package authz

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewEnforcementCache_TTL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"positive", time.Minute, time.Minute},
		{"zero uses default", 0, 5 * time.Minute},
		{"negative uses default", -time.Second, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newEnforcementCache(tt.ttl)
			defer c.stop()
			if c.ttl != tt.want {
				t.Errorf("ttl = %v, want %v", c.ttl, tt.want)
			}
		})
	}
}

func TestEnforcementCache_SetAndGet(t *testing.T) {
	t.Parallel()
	c := newEnforcementCache(time.Minute)
	defer c.stop()

	c.set("Viewer", "/api/map/devices", "read", true)
	c.set("Viewer", "/api/dashboard/devices", "write", false)

	if allowed, ok := c.get("Viewer", "/api/map/devices", "read"); !ok || !allowed {
		t.Errorf("get(read) = (%v, %v), want (true, true)", allowed, ok)
	}
	if allowed, ok := c.get("Viewer", "/api/dashboard/devices", "write"); !ok || allowed {
		t.Errorf("get(write) = (%v, %v), want (false, true)", allowed, ok)
	}
	if _, ok := c.get("Operator", "/api/map/devices", "read"); ok {
		t.Error("get() for an unknown key should miss")
	}
}

func TestEnforcementCache_EvictExpired(t *testing.T) {
	t.Parallel()
	c := newEnforcementCache(time.Hour)
	defer c.stop()

	c.set("Viewer", "/api/a", "read", true)
	c.set("Viewer", "/api/b", "read", true)

	if n := c.evictExpired(time.Now()); n != 0 {
		t.Errorf("evictExpired(now) = %d, want 0", n)
	}
	if n := c.evictExpired(time.Now().Add(2 * time.Hour)); n != 2 {
		t.Errorf("evictExpired(+2h) = %d, want 2", n)
	}
	if c.size() != 0 {
		t.Errorf("size() = %d, want 0", c.size())
	}
}

func TestEnforcementCache_GetExpired(t *testing.T) {
	t.Parallel()
	c := newEnforcementCache(time.Minute)
	defer c.stop()

	c.set("Viewer", "/api/a", "read", true)
	c.mu.Lock()
	c.items[c.key("Viewer", "/api/a", "read")].expiresAt = time.Now().Add(-time.Second)
	c.mu.Unlock()

	if _, ok := c.get("Viewer", "/api/a", "read"); ok {
		t.Error("get() should miss an expired entry")
	}
}

func TestEnforcementCache_Clear(t *testing.T) {
	t.Parallel()
	c := newEnforcementCache(time.Minute)
	defer c.stop()

	c.set("Viewer", "/api/a", "read", true)
	c.set("Operator", "/api/a", "write", true)
	c.clear()

	if c.size() != 0 {
		t.Errorf("size() after clear = %d, want 0", c.size())
	}
}

func TestEnforcementCache_StopIdempotent(t *testing.T) {
	t.Parallel()
	c := newEnforcementCache(time.Minute)
	c.stop()
	c.stop()
}

func TestEnforcementCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	c := newEnforcementCache(time.Minute)
	defer c.stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				obj := fmt.Sprintf("/api/%d/%d", n, j)
				c.set("Viewer", obj, "read", true)
				c.get("Viewer", obj, "read")
			}
		}(i)
	}
	wg.Wait()

	if c.size() != 1000 {
		t.Errorf("size() = %d, want 1000", c.size())
	}
}
