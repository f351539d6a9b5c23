package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/washlane/internal/admin"
	"github.com/washlane/washlane/pkg/audit"
	"github.com/washlane/washlane/pkg/bizctx"
	"github.com/washlane/washlane/pkg/cookie"
	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/gate"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/registrar"
	"github.com/washlane/washlane/pkg/session"
	"github.com/washlane/washlane/pkg/subscription"
	"github.com/washlane/washlane/pkg/tenant"
	"github.com/washlane/washlane/svc/business"
)

type stubTenantStore struct {
	public *directory.Tenant
}

func (s *stubTenantStore) Create(ctx context.Context, t *directory.Tenant) error { return nil }

func (s *stubTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*directory.Tenant, error) {
	return nil, directory.ErrTenantNotFound
}

func (s *stubTenantStore) GetBySlug(ctx context.Context, slug string) (*directory.Tenant, error) {
	if slug == directory.PublicSlug {
		return s.public, nil
	}
	return nil, directory.ErrTenantNotFound
}

func (s *stubTenantStore) GetByDomain(ctx context.Context, domain string) (*directory.Tenant, error) {
	return nil, directory.ErrTenantNotFound
}

func (s *stubTenantStore) EnsureBinding(ctx context.Context, tenantID uuid.UUID, domain string) (*directory.DomainBinding, error) {
	return nil, nil
}

func (s *stubTenantStore) DeactivateBinding(ctx context.Context, tenantID uuid.UUID, domain string) error {
	return nil
}

func (s *stubTenantStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return nil
}

func (s *stubTenantStore) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return nil
}

type stubUserStore struct {
	users map[int64]*identity.User
}

func (s *stubUserStore) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, identity.ErrUserNotFound
}

func (s *stubUserStore) Create(ctx context.Context, u *identity.User) error { return nil }

func (s *stubUserStore) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	return nil
}

type stubSubStore struct{}

func (stubSubStore) Get(ctx context.Context, tenantID uuid.UUID) (*subscription.Subscription, error) {
	return nil, subscription.ErrSubscriptionNotFound
}

func (stubSubStore) Create(ctx context.Context, sub *subscription.Subscription) error { return nil }

func (stubSubStore) SetStatus(ctx context.Context, tenantID uuid.UUID, status subscription.Status) error {
	return nil
}

func (stubSubStore) Cancel(ctx context.Context, tenantID uuid.UUID) error { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	owner := &identity.User{ID: 1, Email: "owner@example.com"}
	require.NoError(t, owner.SetPassword("hunter2!"))
	users := &stubUserStore{users: map[int64]*identity.User{1: owner}}

	tenants := &stubTenantStore{public: &directory.Tenant{
		ID:     uuid.New(),
		Name:   "Public",
		Slug:   directory.PublicSlug,
		Active: true,
	}}

	cookieMgr, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	sessCfg := session.DefaultConfig()
	transport := session.NewCookieTransport(cookieMgr, sessCfg.CookieName, false)
	sessions := session.NewManager(session.NewMemoryStore(0), transport, session.WithConfig(sessCfg))
	continuity := session.NewContinuity(sessions, users, log)

	catalog, err := subscription.ParseCatalog([]byte("plans:\n  - id: starter\n    name: Starter"))
	require.NoError(t, err)
	subSvc := subscription.NewService(stubSubStore{}, catalog, log)

	auditLog := audit.NewLogger(audit.NewMemoryStorage())
	schemas := registrar.New(nil, log)
	registerSvc := business.NewService(tenants, users, schemas, subSvc)

	return &App{
		cfg:        Config{SupportContact: "help@washlane.app"},
		log:        log,
		users:      users,
		sessions:   sessions,
		continuity: continuity,
		resolver:   tenant.NewResolver(tenants, tenant.WithLogger(log)),
		schemas:    schemas,
		gate:       gate.New(stubSubStore{}, auditLog, gate.WithLogger(log)),
		publisher:  bizctx.NewPublisher(log),
		admin:      admin.NewHandler(users, tenants, subSvc, schemas, registerSvc, auditLog, log),
	}
}

func TestRouter(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("root serves public context and starts a session", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "washlane")
		assert.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("reserved prefixes serve the public context", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		router := app.Router()
		for _, path := range []string{"/static/app.css", "/media/logo.png", "/public/landing"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, path)
			assert.Contains(t, rec.Body.String(), "washlane", path)
		}
	})

	t.Run("login rotates session and logout clears it", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		router := app.Router()

		// Anonymous visit establishes a session cookie.
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		anonCookies := rec.Result().Cookies()
		require.NotEmpty(t, anonCookies)

		login := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"owner@example.com","password":"hunter2!"}`))
		for _, c := range anonCookies {
			login.AddCookie(c)
		}
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, login)
		require.Equal(t, http.StatusOK, rec.Code)

		authCookies := rec.Result().Cookies()
		require.NotEmpty(t, authCookies)
		assert.NotEqual(t, anonCookies[0].Value, authCookies[0].Value)

		logout := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		for _, c := range authCookies {
			logout.AddCookie(c)
		}
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, logout)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"owner@example.com","password":"nope"}`))
		app.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin requires authentication", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t)
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/users/1/suspend", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
