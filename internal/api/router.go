// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/sentinelguard/internal/auth"
	"github.com/tomtom215/sentinelguard/internal/authz"
	"github.com/tomtom215/sentinelguard/internal/config"
	"github.com/tomtom215/sentinelguard/internal/middleware"
)

// Router wires handlers and middleware onto a chi mux.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
	trustProxies  bool
}

// NewRouter creates a router. Client IPs in handler security logs follow the
// auth middleware's trusted proxy rules.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, authzMiddleware *authz.Middleware, cfg *config.Config) *Router {
	chiCfg := DefaultChiMiddlewareConfig()
	chiCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	chiCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	chiCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	chiCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled

	handler.clientIP = authMiddleware.ClientIP

	return &Router{
		handler:       handler,
		middleware:    authMiddleware,
		authz:         authzMiddleware,
		chiMiddleware: NewChiMiddleware(chiCfg),
		trustProxies:  len(cfg.Security.TrustedProxies) > 0,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	if router.trustProxies {
		// only rewrite RemoteAddr when a proxy is expected in front
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	// ========================
	// Public Endpoints
	// ========================
	r.Get("/", h.Root)
	r.With(router.chiMiddleware.RateLimitHealth(), APISecurityHeaders()).Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	if static := h.StaticFiles(); static != nil {
		r.Handle("/static/*", static)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		r.Use(router.chiMiddleware.RateLimit())

		// Login has strictest rate limiting (5 attempts per 5 minutes)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/auth/login", h.Login)

		// seeding is unauthenticated so a fresh install can log in; the
		// x/time/rate limiter keeps it from being hammered
		r.With(chiMiddleware(router.middleware.RateLimit)).Get("/dashboard/init", h.InitDashboard)

		// ========================
		// Authenticated Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(router.middleware.Authenticate))
			r.Use(chiMiddleware(router.authz.AuthorizeRequest))

			r.Get("/auth/me", h.Me)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/overview", h.Overview)
				r.Get("/devices", h.Devices)
				r.Post("/devices", h.CreateDevice)
				r.Patch("/devices/{id}", h.UpdateDevice)
				r.Get("/alerts", h.Alerts)
				r.Post("/alerts", h.CreateAlert)
				r.Get("/alerts/{id}", h.Alert)
				r.Post("/alerts/{id}/ack", h.AcknowledgeAlert)
			})

			r.Route("/map", func(r chi.Router) {
				r.Get("/devices", h.MapDevices)
				r.Get("/devices/nearby", h.NearbyDevices)
				r.Get("/overlays", h.MapOverlays)
				r.Get("/filters", h.MapFilterOptions)
				r.Post("/filters", h.ApplyMapFilters)
			})

			r.Route("/camera", func(r chi.Router) {
				r.Get("/live-feed", h.LiveFeed)
				r.Get("/images", h.Images)
				r.Put("/images/{id}/tag", h.TagImage)
				r.Post("/images/{id}/notes", h.SaveImageNotes)
			})
		})

		// the audit trail has its own action so /api/* read grants don't reach it
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(router.middleware.Authenticate))
			r.Get("/audit/events", router.authz.Authorize("/api/audit/events", "audit", h.AuditEvents))
		})
	})

	return r
}
