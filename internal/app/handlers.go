package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/washlane/washlane/pkg/bizctx"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/pg"
	"github.com/washlane/washlane/pkg/redis"
	"github.com/washlane/washlane/pkg/session"
)

func (a *App) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{"postgres": "ok", "redis": "ok"}
	status := http.StatusOK

	if err := pg.Healthcheck(a.pool)(ctx); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := redis.Healthcheck(a.redis)(ctx); err != nil {
		checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, checks)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := a.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		a.log.ErrorContext(r.Context(), "login lookup failed", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	if !user.CheckPassword(req.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	sess := session.MustFromContext(r.Context())
	if _, err := a.sessions.Authenticate(r.Context(), w, sess, user.ID); err != nil {
		a.log.ErrorContext(r.Context(), "failed to authenticate session", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user_id": user.ID, "email": user.Email})
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if err := a.sessions.Destroy(r.Context(), w, sess); err != nil {
		a.log.ErrorContext(r.Context(), "failed to destroy session", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "logout failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleHome is the downstream handler behind the full pipeline. Real
// business modules hang off the published context the same way.
func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	bc := bizctx.MustFromContext(r.Context())

	tn := bc.Tenant()
	if tn.IsPublic() {
		writeJSON(w, http.StatusOK, map[string]any{"platform": "washlane"})
		return
	}

	payload := map[string]any{
		"business": tn.Name,
		"slug":     tn.Slug,
		"verified": bc.IsVerified(),
	}
	if emp := bc.Employee(); emp != nil {
		payload["role"] = emp.Role
	}
	if bc.IsOwner() {
		payload["owner"] = true
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
