package session

import (
	"log/slog"
	"net/http"
)

// CaptureMiddleware snapshots the incoming session before any schema
// rebinding takes place. It must be installed ahead of the tenant
// rebinding middleware; the companion Middleware consumes the snapshot
// afterwards.
func (c *Continuity) CaptureMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, ok := c.Capture(r.Context(), r)
			next.ServeHTTP(w, r.WithContext(withSnapshot(r.Context(), snap, ok)))
		})
	}
}

// Middleware restores and reconciles the session after rebinding, exposes
// session and principal on the request context, and persists any changes
// once the handler returns. It panics if CaptureMiddleware did not run
// first: the ordering is a structural requirement, not a runtime choice.
func (c *Continuity) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			snap, captured, present := snapshotFromContext(ctx)
			if !present {
				panic("session: continuity middleware installed without capture middleware")
			}

			sess, err := c.Restore(ctx, w, snap, captured)
			if err != nil {
				c.log.ErrorContext(ctx, "failed to restore session", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			principal, err := c.Reconcile(ctx, sess)
			if err != nil {
				c.log.ErrorContext(ctx, "failed to reconcile session identity", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			ctx = WithSession(ctx, sess)
			ctx = WithPrincipal(ctx, principal)

			next.ServeHTTP(w, r.WithContext(ctx))

			if err := c.Persist(ctx, sess); err != nil {
				c.log.ErrorContext(ctx, "failed to persist session", slog.Any("error", err))
			}
		})
	}
}
