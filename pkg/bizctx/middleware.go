package bizctx

import (
	"log/slog"
	"net/http"

	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/registrar"
	"github.com/washlane/washlane/pkg/session"
	"github.com/washlane/washlane/pkg/tenant"
)

// Middleware publishes the business context for tenant-scoped requests.
// It runs after the suspension gate and panics when the resolver or
// continuity middleware are missing from the chain.
func (p *Publisher) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			res := tenant.MustFromContext(ctx)
			principal := session.MustPrincipalFromContext(ctx)

			var employees employee.Store
			if res.Tenant != nil && !res.Tenant.IsPublic() {
				if handle, ok := registrar.FromContext(ctx); ok {
					employees = employee.NewStore(handle)
				}
			}

			bc, err := p.Resolve(ctx, res.Tenant, principal, employees)
			if err != nil {
				p.log.ErrorContext(ctx, "failed to publish business context", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithContext(ctx, bc)))
		})
	}
}
