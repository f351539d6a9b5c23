package tenant

import (
	"net/http"
	"strings"
)

// ReservedPrefixes never resolve to a business; requests under these
// paths always run in the public context with their path untouched.
var ReservedPrefixes = []string{
	"/auth/",
	"/public/",
	"/static/",
	"/media/",
	"/admin/",
	"/health/",
}

// Middleware resolves the tenant for every inbound request and rewrites
// the request path to the tenant-relative form before downstream routing.
// Reserved paths get the public resolution with their path untouched, so
// downstream stages always find a resolution in the context. Resolution
// failures on tenant-looking paths terminate the request; the shared
// cache is never left in a partial state because lookups only append on
// success.
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		for _, prefix := range ReservedPrefixes {
			if strings.HasPrefix(req.URL.Path, prefix) {
				public, err := r.publicTenant(req.Context())
				if err != nil {
					http.NotFound(w, req)
					return
				}
				res := &Resolution{Tenant: public, Path: req.URL.Path, Source: SourcePublic}
				next.ServeHTTP(w, req.WithContext(WithResolution(req.Context(), res)))
				return
			}
		}

		res, err := r.Resolve(req.Context(), req.Host, req.URL.Path)
		if err != nil {
			http.NotFound(w, req)
			return
		}

		req.URL.Path = res.Path
		ctx := WithResolution(req.Context(), res)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}
