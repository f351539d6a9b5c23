package registrar

import (
	"net/http"

	"github.com/washlane/washlane/pkg/tenant"
)

// Middleware binds the resolved tenant's schema handle into the request
// context. It must run after the tenant resolver and before any stage that
// touches tenant data; the rebinding happens exactly once per request,
// synchronously, before handler code. Public-context requests pass through
// without a handle.
func (r *Registrar) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		res := tenant.MustFromContext(req.Context())
		if res.Tenant.IsPublic() {
			next.ServeHTTP(w, req)
			return
		}

		h, err := r.Register(req.Context(), res.Tenant)
		if err != nil {
			r.log.ErrorContext(req.Context(), "schema registration failed",
				"tenant_id", res.Tenant.ID, "error", err)
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		ctx := WithHandle(req.Context(), h)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}
