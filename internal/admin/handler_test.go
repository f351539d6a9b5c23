package admin_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/washlane/internal/admin"
	"github.com/washlane/washlane/pkg/audit"
	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/registrar"
	"github.com/washlane/washlane/pkg/session"
	"github.com/washlane/washlane/pkg/subscription"
	"github.com/washlane/washlane/svc/business"
)

type fakeUserStore struct {
	users map[int64]*identity.User
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return nil, identity.ErrUserNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, u *identity.User) error { return nil }

func (f *fakeUserStore) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	u, ok := f.users[id]
	if !ok {
		return identity.ErrUserNotFound
	}
	u.Suspended = suspended
	return nil
}

type fakeTenantStore struct {
	byID map[uuid.UUID]*directory.Tenant
}

func (f *fakeTenantStore) Create(ctx context.Context, t *directory.Tenant) error {
	f.byID[t.ID] = t
	return nil
}

func (f *fakeTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*directory.Tenant, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, directory.ErrTenantNotFound
	}
	return t, nil
}

func (f *fakeTenantStore) GetBySlug(ctx context.Context, slug string) (*directory.Tenant, error) {
	return nil, directory.ErrTenantNotFound
}

func (f *fakeTenantStore) GetByDomain(ctx context.Context, domain string) (*directory.Tenant, error) {
	return nil, directory.ErrTenantNotFound
}

func (f *fakeTenantStore) EnsureBinding(ctx context.Context, tenantID uuid.UUID, domain string) (*directory.DomainBinding, error) {
	return nil, nil
}

func (f *fakeTenantStore) DeactivateBinding(ctx context.Context, tenantID uuid.UUID, domain string) error {
	return nil
}

func (f *fakeTenantStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	t, ok := f.byID[id]
	if !ok {
		return directory.ErrTenantNotFound
	}
	t.Active = active
	return nil
}

func (f *fakeTenantStore) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	t, ok := f.byID[id]
	if !ok {
		return directory.ErrTenantNotFound
	}
	t.Verified = verified
	return nil
}

type fakeSubStore struct {
	subs map[uuid.UUID]*subscription.Subscription
}

func (f *fakeSubStore) Get(ctx context.Context, tenantID uuid.UUID) (*subscription.Subscription, error) {
	sub, ok := f.subs[tenantID]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (f *fakeSubStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	f.subs[sub.TenantID] = sub
	return nil
}

func (f *fakeSubStore) SetStatus(ctx context.Context, tenantID uuid.UUID, status subscription.Status) error {
	sub, ok := f.subs[tenantID]
	if !ok {
		return subscription.ErrSubscriptionNotFound
	}
	sub.Status = status
	return nil
}

func (f *fakeSubStore) Cancel(ctx context.Context, tenantID uuid.UUID) error {
	return f.SetStatus(ctx, tenantID, subscription.StatusCancelled)
}

type fakeRegistrar struct{}

func (fakeRegistrar) Register(ctx context.Context, t *directory.Tenant) (*registrar.Handle, error) {
	return nil, nil
}

type fakeEmployeeStore struct {
	byUserID map[int64]*employee.Employee
}

func (f *fakeEmployeeStore) GetByUserID(ctx context.Context, userID int64) (*employee.Employee, error) {
	emp, ok := f.byUserID[userID]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeStore) GetOrCreateOwner(ctx context.Context, userID int64) (*employee.Employee, error) {
	return f.GetByUserID(ctx, userID)
}

func (f *fakeEmployeeStore) Create(ctx context.Context, emp *employee.Employee) error { return nil }

func (f *fakeEmployeeStore) SetStatus(ctx context.Context, userID int64, status employee.Status) error {
	emp, ok := f.byUserID[userID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.Status = status
	return nil
}

func (f *fakeEmployeeStore) List(ctx context.Context) ([]employee.Employee, error) { return nil, nil }

type fixture struct {
	handler   http.Handler
	users     *fakeUserStore
	tenants   *fakeTenantStore
	subs      *fakeSubStore
	employees *fakeEmployeeStore
	storage   *audit.MemoryStorage
	tenantID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tenantID := uuid.New()
	users := &fakeUserStore{users: map[int64]*identity.User{
		1: {ID: 1, Email: "owner@example.com"},
		2: {ID: 2, Email: "staff@example.com"},
	}}
	tenants := &fakeTenantStore{byID: map[uuid.UUID]*directory.Tenant{
		tenantID: {ID: tenantID, Slug: "freshwash", SchemaName: "biz_freshwash", OwnerID: 1, Active: true},
	}}
	subs := &fakeSubStore{subs: map[uuid.UUID]*subscription.Subscription{
		tenantID: {TenantID: tenantID, PlanID: "starter", Status: subscription.StatusActive},
	}}
	employees := &fakeEmployeeStore{byUserID: map[int64]*employee.Employee{
		2: {UserID: 2, Role: employee.RoleStaff, Status: employee.StatusActive},
	}}
	storage := audit.NewMemoryStorage()

	catalog, err := subscription.ParseCatalog([]byte("plans:\n  - id: starter\n    name: Starter"))
	require.NoError(t, err)
	subSvc := subscription.NewService(subs, catalog, nil)
	registerSvc := business.NewService(tenants, users, fakeRegistrar{}, subSvc,
		business.WithEmployeeStores(func(h *registrar.Handle) employee.Store { return employees }))

	handler := admin.NewHandler(users, tenants, subSvc, fakeRegistrar{}, registerSvc,
		audit.NewLogger(storage), nil).
		WithEmployeeStores(func(h *registrar.Handle) employee.Store { return employees })

	return &fixture{
		handler:   handler.Router(),
		users:     users,
		tenants:   tenants,
		subs:      subs,
		employees: employees,
		storage:   storage,
		tenantID:  tenantID,
	}
}

func (f *fixture) do(t *testing.T, user *identity.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)

	var principal session.Principal = session.Anonymous{Reason: "no credentials"}
	if user != nil {
		principal = session.Authenticated{User: user}
	}
	req = req.WithContext(session.WithPrincipal(req.Context(), principal))

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

var superuser = &identity.User{ID: 9, Email: "ops@example.com", Superuser: true}

func TestHandler_AccessControl(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	t.Run("anonymous rejected", func(t *testing.T) {
		rec := f.do(t, nil, http.MethodPost, "/users/1/suspend", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-superuser forbidden", func(t *testing.T) {
		rec := f.do(t, &identity.User{ID: 2}, http.MethodPost, "/users/1/suspend", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandler_SuspendReactivate(t *testing.T) {
	t.Parallel()

	t.Run("user", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		rec := f.do(t, superuser, http.MethodPost, "/users/2/suspend", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, f.users.users[2].Suspended)

		rec = f.do(t, superuser, http.MethodPost, "/users/2/reactivate", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, f.users.users[2].Suspended)

		rec = f.do(t, superuser, http.MethodPost, "/users/99/suspend", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("business", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		path := fmt.Sprintf("/businesses/%s/suspend", f.tenantID)
		rec := f.do(t, superuser, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, f.tenants.byID[f.tenantID].Active)

		path = fmt.Sprintf("/businesses/%s/reactivate", f.tenantID)
		rec = f.do(t, superuser, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, f.tenants.byID[f.tenantID].Active)
	})

	t.Run("subscription", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		path := fmt.Sprintf("/businesses/%s/subscription/suspend", f.tenantID)
		rec := f.do(t, superuser, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, subscription.StatusPastDue, f.subs.subs[f.tenantID].Status)

		path = fmt.Sprintf("/businesses/%s/subscription/reactivate", f.tenantID)
		rec = f.do(t, superuser, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, subscription.StatusActive, f.subs.subs[f.tenantID].Status)
	})

	t.Run("employee", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		path := fmt.Sprintf("/businesses/%s/employees/2/suspend", f.tenantID)
		rec := f.do(t, superuser, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, employee.StatusSuspended, f.employees.byUserID[2].Status)

		path = fmt.Sprintf("/businesses/%s/employees/99/suspend", f.tenantID)
		rec = f.do(t, superuser, http.MethodPost, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("mutations are audited", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.do(t, superuser, http.MethodPost, "/users/2/suspend", "")
		path := fmt.Sprintf("/businesses/%s/suspend", f.tenantID)
		f.do(t, superuser, http.MethodPost, path, "")

		events := f.storage.Events()
		require.Len(t, events, 2)
		assert.Equal(t, "user.suspend", events[0].Action)
		assert.Equal(t, "business.suspend", events[1].Action)
	})
}

func TestHandler_RegisterBusiness(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, superuser, http.MethodPost, "/businesses",
		`{"name":"Shiny Cars","owner_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "shiny-cars")

	rec = f.do(t, superuser, http.MethodPost, "/businesses",
		`{"name":"","owner_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, superuser, http.MethodPost, "/businesses",
		`{"name":"Another","owner_id":404}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
