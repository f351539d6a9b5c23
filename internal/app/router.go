package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/washlane/washlane/pkg/requestid"
)

// Router builds the full route tree. The tenant-scoped group runs the
// pipeline in its required order: capture, resolve, rebind, restore,
// gate, publish. Platform surfaces (auth, admin, health) skip tenant
// resolution entirely but still carry sessions.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", a.handleLive)
		r.Get("/ready", a.handleReady)
	})

	// Platform surfaces: session-aware, never tenant-bound. Capture and
	// restore run back to back since no rebinding happens in between.
	r.Group(func(r chi.Router) {
		r.Use(a.continuity.CaptureMiddleware())
		r.Use(a.continuity.Middleware())

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", a.handleLogin)
			r.Post("/logout", a.handleLogout)
		})
		r.Mount("/admin", a.admin.Router())
	})

	// Tenant-scoped traffic: everything else.
	r.Group(func(r chi.Router) {
		r.Use(a.continuity.CaptureMiddleware())
		r.Use(a.resolver.Middleware)
		r.Use(a.schemas.Middleware)
		r.Use(a.continuity.Middleware())
		r.Use(a.gate.Middleware(a.cfg.SupportContact))
		r.Use(a.publisher.Middleware())

		r.Handle("/*", http.HandlerFunc(a.handleHome))
	})

	return r
}
