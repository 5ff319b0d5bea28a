// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

// Package authz provides role-based route authorization using Casbin.
//
// It runs after authentication and decides, from the authenticated user's
// role, whether the request may proceed:
//
//	Request -> auth.Middleware.Authenticate -> authz.Middleware.AuthorizeRequest -> Handler
//
// # RBAC Model
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[policy_effect]
//	e = some(where (p.eft == allow))
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// # Roles
//
//   - Viewer: read access to every /api route, plus the pin filter query
//   - Operator: inherits Viewer, adds write and delete
//   - Supervisor: inherits Operator
//
// HTTP methods map to actions: GET/HEAD/OPTIONS are "read", POST/PUT/PATCH
// are "write", DELETE is "delete".
//
// Both the model and the policy are embedded. A policy file on disk
// (security.casbin_policy_path) replaces the embedded policy and is
// reloaded periodically.
//
// # Usage
//
//	enforcer, err := authz.NewEnforcer(ctx, authz.DefaultEnforcerConfig())
//	if err != nil {
//	    return err
//	}
//	defer enforcer.Close()
//
//	mw := authz.NewMiddleware(enforcer, authz.MiddlewareConfig{})
//	r.Get("/api/dashboard/devices", authMW.Authenticate(mw.AuthorizeRequest(h.Devices)))
package authz
