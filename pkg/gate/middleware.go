package gate

import (
	"log/slog"
	"net/http"

	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/registrar"
	"github.com/washlane/washlane/pkg/session"
	"github.com/washlane/washlane/pkg/tenant"
)

// Middleware evaluates the suspension chain for every request. It panics
// when the tenant resolver or session continuity middleware did not run
// first: stage four needs the reconciled principal and the tenant's
// schema handle, so the ordering is structural.
func (g *Gate) Middleware(supportContact string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			res := tenant.MustFromContext(ctx)
			principal := session.MustPrincipalFromContext(ctx)

			req := Request{
				Path:      r.URL.Path,
				Tenant:    res.Tenant,
				Principal: principal,
			}
			if res.Tenant != nil && !res.Tenant.IsPublic() {
				if handle, ok := registrar.FromContext(ctx); ok {
					req.Employees = employee.NewStore(handle)
				}
			}

			decision, err := g.Evaluate(ctx, req)
			if err != nil {
				g.log.ErrorContext(ctx, "gate evaluation failed", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}

			switch d := decision.(type) {
			case Block:
				g.log.InfoContext(ctx, "request blocked by suspension gate",
					slog.String("stage", string(d.Stage)),
					slog.String("path", r.URL.Path))
				RenderBlock(w, d, supportContact)
			case Pass:
				next.ServeHTTP(w, r)
			}
		})
	}
}
