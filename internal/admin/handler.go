package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/washlane/washlane/pkg/audit"
	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/registrar"
	"github.com/washlane/washlane/pkg/subscription"
	"github.com/washlane/washlane/svc/business"
)

// SchemaRegistrar yields schema handles for tenants, used to reach
// per-tenant employee tables from platform tooling.
type SchemaRegistrar interface {
	Register(ctx context.Context, t *directory.Tenant) (*registrar.Handle, error)
}

// EmployeeStores builds an employee store over a schema handle.
type EmployeeStores func(*registrar.Handle) employee.Store

// Handler is the superuser-only administrative API: business
// registration plus independent suspend/reactivate operations on users,
// businesses, subscriptions and employees. Every mutation writes an
// audit event.
type Handler struct {
	users     identity.Store
	tenants   directory.Store
	subs      *subscription.Service
	schemas   SchemaRegistrar
	employees EmployeeStores
	register  *business.Service
	auditLog  audit.Logger
	log       *slog.Logger
}

// NewHandler creates the admin API handler.
func NewHandler(
	users identity.Store,
	tenants directory.Store,
	subs *subscription.Service,
	schemas SchemaRegistrar,
	register *business.Service,
	auditLog audit.Logger,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		users:   users,
		tenants: tenants,
		subs:    subs,
		schemas: schemas,
		employees: func(h *registrar.Handle) employee.Store {
			return employee.NewStore(h)
		},
		register: register,
		auditLog: auditLog,
		log:      log,
	}
}

// WithEmployeeStores overrides how employee stores are built.
func (h *Handler) WithEmployeeStores(factory EmployeeStores) *Handler {
	h.employees = factory
	return h
}

// Router builds the admin route tree. Callers mount it under /admin
// behind the superuser middleware.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(RequireSuperuser)

	r.Post("/businesses", h.registerBusiness)
	r.Post("/businesses/{tenantID}/suspend", h.setBusinessActive(false))
	r.Post("/businesses/{tenantID}/reactivate", h.setBusinessActive(true))
	r.Post("/businesses/{tenantID}/verify", h.verifyBusiness)
	r.Post("/businesses/{tenantID}/subscription/suspend", h.setSubscription(false))
	r.Post("/businesses/{tenantID}/subscription/reactivate", h.setSubscription(true))
	r.Post("/businesses/{tenantID}/employees/{userID}/suspend", h.setEmployeeStatus(employee.StatusSuspended))
	r.Post("/businesses/{tenantID}/employees/{userID}/reactivate", h.setEmployeeStatus(employee.StatusActive))
	r.Post("/users/{userID}/suspend", h.setUserSuspended(true))
	r.Post("/users/{userID}/reactivate", h.setUserSuspended(false))

	return r
}

type registerRequest struct {
	Name    string `json:"name"`
	Slug    string `json:"slug,omitempty"`
	OwnerID int64  `json:"owner_id"`
	PlanID  string `json:"plan_id,omitempty"`
}

func (h *Handler) registerBusiness(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tn, err := h.register.Register(r.Context(), business.RegisterInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: req.OwnerID,
		PlanID:  req.PlanID,
	})
	if err != nil {
		switch {
		case errors.Is(err, business.ErrNameRequired), errors.Is(err, business.ErrInvalidSlug):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, business.ErrOwnerNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, directory.ErrDuplicateSlug):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.log.ErrorContext(r.Context(), "business registration failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	h.auditEvent(r.Context(), "business.register", tn.ID.String(), "")
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":   tn.ID,
		"name": tn.Name,
		"slug": tn.Slug,
	})
}

func (h *Handler) setUserSuspended(suspended bool) http.HandlerFunc {
	action := "user.reactivate"
	if suspended {
		action = "user.suspend"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		if err := h.users.SetSuspended(r.Context(), userID, suspended); err != nil {
			if errors.Is(err, identity.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			h.log.ErrorContext(r.Context(), "failed to update user suspension", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}

		h.auditEvent(r.Context(), action, "", strconv.FormatInt(userID, 10))
		writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "suspended": suspended})
	}
}

func (h *Handler) setBusinessActive(active bool) http.HandlerFunc {
	action := "business.suspend"
	if active {
		action = "business.reactivate"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := h.tenantIDParam(w, r)
		if !ok {
			return
		}

		if err := h.tenants.SetActive(r.Context(), tenantID, active); err != nil {
			if errors.Is(err, directory.ErrTenantNotFound) {
				writeError(w, http.StatusNotFound, "business not found")
				return
			}
			h.log.ErrorContext(r.Context(), "failed to update business state", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}

		h.auditEvent(r.Context(), action, tenantID.String(), "")
		writeJSON(w, http.StatusOK, map[string]any{"tenant_id": tenantID, "active": active})
	}
}

func (h *Handler) verifyBusiness(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantIDParam(w, r)
	if !ok {
		return
	}

	if err := h.tenants.SetVerified(r.Context(), tenantID, true); err != nil {
		if errors.Is(err, directory.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, "business not found")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to verify business", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "update failed")
		return
	}

	h.auditEvent(r.Context(), "business.verify", tenantID.String(), "")
	writeJSON(w, http.StatusOK, map[string]any{"tenant_id": tenantID, "verified": true})
}

func (h *Handler) setSubscription(active bool) http.HandlerFunc {
	action := "subscription.suspend"
	op := h.subs.Suspend
	if active {
		action = "subscription.reactivate"
		op = h.subs.Reactivate
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := h.tenantIDParam(w, r)
		if !ok {
			return
		}

		if err := op(r.Context(), tenantID); err != nil {
			if errors.Is(err, subscription.ErrSubscriptionNotFound) {
				writeError(w, http.StatusNotFound, "subscription not found")
				return
			}
			h.log.ErrorContext(r.Context(), "failed to update subscription", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}

		h.auditEvent(r.Context(), action, tenantID.String(), "")
		writeJSON(w, http.StatusOK, map[string]any{"tenant_id": tenantID})
	}
}

func (h *Handler) setEmployeeStatus(status employee.Status) http.HandlerFunc {
	action := "employee.reactivate"
	if status == employee.StatusSuspended {
		action = "employee.suspend"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := h.tenantIDParam(w, r)
		if !ok {
			return
		}
		userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		tn, err := h.tenants.GetByID(r.Context(), tenantID)
		if err != nil {
			if errors.Is(err, directory.ErrTenantNotFound) {
				writeError(w, http.StatusNotFound, "business not found")
				return
			}
			h.log.ErrorContext(r.Context(), "failed to load business", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}

		handle, err := h.schemas.Register(r.Context(), tn)
		if err != nil {
			h.log.ErrorContext(r.Context(), "failed to bind tenant schema", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}

		if err := h.employees(handle).SetStatus(r.Context(), userID, status); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				writeError(w, http.StatusNotFound, "employee not found")
				return
			}
			h.log.ErrorContext(r.Context(), "failed to update employee status", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}

		h.auditEvent(r.Context(), action, tenantID.String(), strconv.FormatInt(userID, 10))
		writeJSON(w, http.StatusOK, map[string]any{"tenant_id": tenantID, "user_id": userID, "status": status})
	}
}

func (h *Handler) tenantIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tenantID, err := uuid.Parse(chi.URLParam(r, "tenantID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return uuid.UUID{}, false
	}
	return tenantID, true
}

func (h *Handler) auditEvent(ctx context.Context, action, tenantID, userID string) {
	if h.auditLog == nil {
		return
	}
	opts := []audit.EventOption{}
	if tenantID != "" {
		opts = append(opts, audit.WithTenantID(tenantID))
	}
	if userID != "" {
		opts = append(opts, audit.WithMetadata("target_user_id", userID))
	}
	if err := h.auditLog.Log(ctx, action, opts...); err != nil {
		h.log.ErrorContext(ctx, "failed to write audit event",
			slog.String("action", action), slog.Any("error", err))
	}
}
