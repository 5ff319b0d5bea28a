// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/sentinelguard/internal/api"
	"github.com/tomtom215/sentinelguard/internal/audit"
	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/authz"
	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/database"
	"github.com/tomtom215/sentinelguard/internal/logging"
	"github.com/tomtom215/sentinelguard/internal/supervisor"
	"github.com/tomtom215/sentinelguard/internal/supervisor/services"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// app holds everything main wires together so it can be torn down in order.
type app struct {
	db       *database.DB
	audit    *audit.Logger
	authMw   *auth.Middleware
	enforcer *authz.Enforcer
	server   *http.Server
	handler  http.Handler
	tree     *supervisor.SupervisorTree
}

// newApp opens the store and builds the HTTP stack and supervisor tree.
// Nothing is served until tree.ServeBackground is called.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize directory store: %w", err)
	}
	a := &app{db: db}

	if cfg.Audit.Enabled {
		a.audit = audit.NewLogger(db.AuditStore(), &audit.Config{
			Enabled:       true,
			RetentionDays: cfg.Audit.RetentionDays,
			BufferSize:    cfg.Audit.BufferSize,
			LogToStdout:   cfg.Audit.LogToStdout,
		})
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize JWT manager: %w", err)
	}
	gate := auth.NewGate(db, jwtManager)

	a.authMw = auth.NewMiddleware(gate, auth.MiddlewareConfig{
		RateLimitReqs:     cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
		TrustedProxies:    cfg.Security.TrustedProxies,
		ErrorWriter:       api.WriteError,
	})

	enforcerCfg := authz.DefaultEnforcerConfig()
	enforcerCfg.PolicyPath = cfg.Security.CasbinPolicyPath
	a.enforcer, err = authz.NewEnforcer(ctx, enforcerCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize authorization: %w", err)
	}
	authzMw := authz.NewMiddleware(a.enforcer, authz.MiddlewareConfig{
		ErrorWriter: api.WriteError,
		ClientIP:    a.authMw.ClientIP,
		Audit:       a.audit,
	})

	handler := api.NewHandler(db, gate, jwtManager, a.audit, cfg)
	a.handler = api.NewRouter(handler, a.authMw, authzMw, cfg).SetupChi()
	a.server = newHTTPServer(cfg, a.handler)

	a.tree, err = supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	a.tree.AddAPIService(services.NewHTTPServerService(a.server, shutdownTimeout))
	if cfg.Database.GCInterval > 0 && !cfg.Database.InMemory {
		a.tree.AddDataService(services.NewGCService(db, cfg.Database.GCInterval))
	} else {
		logging.Info().Msg("Value log GC disabled")
	}
	if a.audit != nil && cfg.Audit.RetentionDays > 0 {
		a.tree.AddDataService(services.NewAuditRetentionService(a.audit, cfg.Audit.CleanupInterval))
	}

	logging.Info().Msg("Services added to supervisor tree")
	return a, nil
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}
}

// Close releases the middleware, enforcer, audit writer and store. It is
// safe on a partially built app.
func (a *app) Close() {
	if a.authMw != nil {
		a.authMw.Stop()
	}
	if a.enforcer != nil {
		a.enforcer.Close()
	}
	// drains pending events while the store is still open
	_ = a.audit.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing directory store")
		}
	}
}
