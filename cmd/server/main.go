// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

// Package main is the entry point for the SentinelGuard API server.
//
// SentinelGuard keeps the directory of perimeter devices, alerts and camera
// captures behind the monitoring dashboard, and authenticates the operators
// who use it.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: struct defaults, config.yaml, .env and environment (Koanf v2)
//  2. Logging: zerolog, with an slog bridge for the supervisor
//  3. Directory store: BadgerDB plus the in-memory spatial index
//  4. Mock data: seeded when SEED_MOCK_DATA=true
//  5. Access gate: bcrypt credentials, JWT tokens and Casbin role policy
//  6. HTTP server: chi router served under the supervisor tree
//  7. Value log GC: periodic Badger compaction, also supervised
//
// # Configuration
//
// Common environment variables:
//   - JWT_SECRET: 32+ character secret for token signing (required)
//   - DATABASE_PATH: BadgerDB directory (default data/sentinelguard)
//   - HTTP_PORT: listen port (default 8000)
//   - SEED_MOCK_DATA: insert the demo operator, devices, images and alert
//   - ENVIRONMENT: development, staging or production
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
// server (in-flight requests get the configured shutdown timeout), then the
// store is closed.
//
// # Example Usage
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export SEED_MOCK_DATA=true
//	./sentinelguard
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("in_memory", cfg.Database.InMemory).
		Str("environment", cfg.Server.Environment).
		Msg("Starting SentinelGuard with supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run builds the application, serves until ctx is canceled and tears
// everything down again.
func run(ctx context.Context, cfg *config.Config) error {
	app, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.Database.SeedMockData {
		logging.Info().Msg("Mock data seeding enabled (SEED_MOCK_DATA=true)")
		if _, err := app.db.SeedMockData(ctx); err != nil {
			return err
		}
	}

	logging.Info().Str("addr", app.server.Addr).Msg("Starting supervisor tree...")
	errCh := app.tree.ServeBackground(ctx)

	var runErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = err
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := app.tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	return runErr
}
