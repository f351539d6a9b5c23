package bizctx_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/washlane/pkg/bizctx"
	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/session"
)

type fakeEmployeeStore struct {
	mu       sync.Mutex
	byUserID map[int64]*employee.Employee
	creates  int
}

func newFakeEmployeeStore(emps ...*employee.Employee) *fakeEmployeeStore {
	s := &fakeEmployeeStore{byUserID: make(map[int64]*employee.Employee)}
	for _, e := range emps {
		s.byUserID[e.UserID] = e
	}
	return s
}

func (f *fakeEmployeeStore) GetByUserID(ctx context.Context, userID int64) (*employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	emp, ok := f.byUserID[userID]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeStore) GetOrCreateOwner(ctx context.Context, userID int64) (*employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if emp, ok := f.byUserID[userID]; ok {
		return emp, nil
	}
	emp := &employee.Employee{
		ID:     uuid.New(),
		UserID: userID,
		Role:   employee.RoleOwner,
		Status: employee.StatusActive,
	}
	f.byUserID[userID] = emp
	f.creates++
	return emp, nil
}

func (f *fakeEmployeeStore) Create(ctx context.Context, emp *employee.Employee) error { return nil }

func (f *fakeEmployeeStore) SetStatus(ctx context.Context, userID int64, status employee.Status) error {
	return nil
}

func (f *fakeEmployeeStore) List(ctx context.Context) ([]employee.Employee, error) { return nil, nil }

func testTenant(ownerID int64) *directory.Tenant {
	return &directory.Tenant{
		ID:       uuid.New(),
		Slug:     "freshwash",
		Active:   true,
		Verified: true,
		OwnerID:  ownerID,
	}
}

func TestPublisher_Resolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pub := bizctx.NewPublisher(nil)

	t.Run("anonymous gets tenant only", func(t *testing.T) {
		t.Parallel()

		bc, err := pub.Resolve(ctx, testTenant(1), session.Anonymous{}, newFakeEmployeeStore())
		require.NoError(t, err)
		assert.Nil(t, bc.Employee())
		assert.False(t, bc.IsOwner())
		assert.True(t, bc.IsVerified())
	})

	t.Run("owner gets provisioned record", func(t *testing.T) {
		t.Parallel()

		store := newFakeEmployeeStore()
		bc, err := pub.Resolve(ctx, testTenant(1),
			session.Authenticated{User: &identity.User{ID: 1}}, store)
		require.NoError(t, err)
		assert.True(t, bc.IsOwner())
		require.NotNil(t, bc.Employee())
		assert.Equal(t, employee.RoleOwner, bc.Employee().Role)
		assert.Equal(t, 1, store.creates)
	})

	t.Run("owner provisioning is idempotent", func(t *testing.T) {
		t.Parallel()

		store := newFakeEmployeeStore()
		tn := testTenant(1)
		principal := session.Authenticated{User: &identity.User{ID: 1}}

		var wg sync.WaitGroup
		for n := 0; n < 10; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := pub.Resolve(ctx, tn, principal, store)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, store.creates)
	})

	t.Run("staff member gets their record", func(t *testing.T) {
		t.Parallel()

		staff := &employee.Employee{UserID: 2, Role: employee.RoleStaff, Status: employee.StatusActive}
		bc, err := pub.Resolve(ctx, testTenant(1),
			session.Authenticated{User: &identity.User{ID: 2}}, newFakeEmployeeStore(staff))
		require.NoError(t, err)
		assert.False(t, bc.IsOwner())
		require.NotNil(t, bc.Employee())
		assert.Equal(t, employee.RoleStaff, bc.Employee().Role)
	})

	t.Run("authenticated customer gets nil employee", func(t *testing.T) {
		t.Parallel()

		bc, err := pub.Resolve(ctx, testTenant(1),
			session.Authenticated{User: &identity.User{ID: 5}}, newFakeEmployeeStore())
		require.NoError(t, err)
		assert.Nil(t, bc.Employee())
		assert.False(t, bc.IsOwner())
	})

	t.Run("public tenant publishes no employee", func(t *testing.T) {
		t.Parallel()

		public := &directory.Tenant{ID: uuid.New(), Slug: directory.PublicSlug, Active: true}
		bc, err := pub.Resolve(ctx, public,
			session.Authenticated{User: &identity.User{ID: 1}}, nil)
		require.NoError(t, err)
		assert.Nil(t, bc.Employee())
	})
}
