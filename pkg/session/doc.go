// Package session provides cookie-backed sessions that survive the
// request's switch between tenant schemas.
//
// Sessions are stored outside every tenant schema (Redis or an in-memory
// store), keyed by an opaque token carried in a signed cookie. Because
// neither the token nor the store depends on tenant state, a session
// captured at the start of a request remains valid after the request is
// rebound to a different schema.
//
// The Continuity type coordinates the crossing. CaptureMiddleware runs
// before schema rebinding and snapshots the session; Middleware runs
// after rebinding, restores the session from the snapshot, reconciles the
// session's user reference against the identity store, and persists any
// modifications when the handler returns. Reconciliation yields a
// Principal, a closed type set (Anonymous or Authenticated) that handlers
// switch on.
//
// Concurrent requests sharing a session are handled with optimistic
// concurrency: each save bumps a version, and a conflicting save
// recreates the record under the same token so the last writer wins.
//
// Usage:
//
//	store := session.NewRedisStore(redisClient)
//	transport := session.NewCookieTransport(cookieMgr, cfg.CookieName, cfg.SecureCookies)
//	manager := session.NewManager(store, transport, session.WithConfig(cfg))
//	continuity := session.NewContinuity(manager, userStore, log)
//
//	r.Use(continuity.CaptureMiddleware())
//	r.Use(tenantMW, registrarMW)
//	r.Use(continuity.Middleware())
package session
