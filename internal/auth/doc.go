// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

/*
Package auth holds the credential store and the access gate.

Key Components:

  - HashPassword / VerifyPassword: bcrypt at cost 12
  - JWTManager: HS256 session tokens carrying sub, role, exp, iat and nbf
  - Gate: resolves bearer tokens to directory users and enforces the role
    match at login
  - Middleware: HTTP bearer authentication and per-IP rate limiting
  - RateLimiter: token bucket per client IP (golang.org/x/time/rate)

Access Gate States:

	Unauthenticated --(missing/invalid/expired token)--> ErrInvalidCredentials
	Unauthenticated --(valid token, unknown subject)---> ErrUserNotFound
	Unauthenticated --(valid token, known subject)-----> Authenticated(user)

Login additionally rejects a correct password presented with the wrong role
(ErrRoleMismatch).

Tokens are stateless. There is no refresh: an expired token is rejected and
the client logs in again.
*/
package auth
