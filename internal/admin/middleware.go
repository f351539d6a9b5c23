package admin

import (
	"net/http"

	"github.com/washlane/washlane/pkg/session"
)

// RequireSuperuser rejects requests from anyone but platform operators.
// Anonymous callers get 401, authenticated non-superusers 403.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := session.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		auth, ok := principal.(session.Authenticated)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !auth.User.Superuser {
			writeError(w, http.StatusForbidden, "superuser access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
