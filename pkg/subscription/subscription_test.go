package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/washlane/pkg/subscription"
)

func TestSubscription_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("active is in good standing", func(t *testing.T) {
		t.Parallel()

		sub := &subscription.Subscription{Status: subscription.StatusActive}
		assert.True(t, sub.InGoodStanding())
	})

	t.Run("trialing with time left is in good standing", func(t *testing.T) {
		t.Parallel()

		ends := time.Now().UTC().Add(48 * time.Hour)
		sub := &subscription.Subscription{Status: subscription.StatusTrialing, TrialEndsAt: &ends}
		assert.True(t, sub.InGoodStanding())
		assert.Equal(t, 2, sub.TrialDaysRemaining())
	})

	t.Run("expired trial is not", func(t *testing.T) {
		t.Parallel()

		ends := time.Now().UTC().Add(-time.Hour)
		sub := &subscription.Subscription{Status: subscription.StatusTrialing, TrialEndsAt: &ends}
		assert.False(t, sub.InGoodStanding())
		assert.True(t, sub.IsTrialExpired())
		assert.Zero(t, sub.TrialDaysRemaining())
	})

	t.Run("past due and cancelled are not", func(t *testing.T) {
		t.Parallel()

		assert.False(t, (&subscription.Subscription{Status: subscription.StatusPastDue}).InGoodStanding())
		assert.False(t, (&subscription.Subscription{Status: subscription.StatusCancelled}).InGoodStanding())
	})
}

const testCatalog = `
default_plan: starter
plans:
  - id: starter
    name: Starter
    trial_days: 14
    price_cents: 0
    interval: month
    public: true
    features: [booking, pos]
  - id: pro
    name: Pro
    price_cents: 4900
    interval: month
    public: true
    features: [booking, pos, fleet, reports]
`

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog", func(t *testing.T) {
		t.Parallel()

		c, err := subscription.ParseCatalog([]byte(testCatalog))
		require.NoError(t, err)

		assert.Equal(t, "starter", c.Default().ID)

		pro, err := c.Get("pro")
		require.NoError(t, err)
		assert.Equal(t, int64(4900), pro.PriceCents)

		_, err = c.Get("enterprise")
		assert.ErrorIs(t, err, subscription.ErrPlanNotFound)
	})

	t.Run("empty catalog rejected", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.ParseCatalog([]byte("plans: []"))
		assert.ErrorIs(t, err, subscription.ErrInvalidCatalog)
	})

	t.Run("unknown default rejected", func(t *testing.T) {
		t.Parallel()

		_, err := subscription.ParseCatalog([]byte("default_plan: nope\nplans:\n  - id: starter\n    name: Starter"))
		assert.ErrorIs(t, err, subscription.ErrInvalidCatalog)
	})
}

type fakeStore struct {
	subs map[uuid.UUID]*subscription.Subscription
}

func newFakeStore() *fakeStore {
	return &fakeStore{subs: make(map[uuid.UUID]*subscription.Subscription)}
}

func (f *fakeStore) Get(ctx context.Context, tenantID uuid.UUID) (*subscription.Subscription, error) {
	sub, ok := f.subs[tenantID]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (f *fakeStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	if _, ok := f.subs[sub.TenantID]; ok {
		return subscription.ErrSubscriptionExists
	}
	f.subs[sub.TenantID] = sub
	return nil
}

func (f *fakeStore) SetStatus(ctx context.Context, tenantID uuid.UUID, status subscription.Status) error {
	sub, ok := f.subs[tenantID]
	if !ok {
		return subscription.ErrSubscriptionNotFound
	}
	sub.Status = status
	return nil
}

func (f *fakeStore) Cancel(ctx context.Context, tenantID uuid.UUID) error {
	return f.SetStatus(ctx, tenantID, subscription.StatusCancelled)
}

func TestService_Start(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	catalog, err := subscription.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)

	t.Run("default plan starts trialing", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(newFakeStore(), catalog, nil)
		sub, err := svc.Start(ctx, uuid.New(), "")
		require.NoError(t, err)
		assert.Equal(t, "starter", sub.PlanID)
		assert.Equal(t, subscription.StatusTrialing, sub.Status)
		require.NotNil(t, sub.TrialEndsAt)
	})

	t.Run("plan without trial starts active", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(newFakeStore(), catalog, nil)
		sub, err := svc.Start(ctx, uuid.New(), "pro")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusActive, sub.Status)
		assert.Nil(t, sub.TrialEndsAt)
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(newFakeStore(), catalog, nil)
		_, err := svc.Start(ctx, uuid.New(), "enterprise")
		assert.ErrorIs(t, err, subscription.ErrPlanNotFound)
	})

	t.Run("suspend and reactivate", func(t *testing.T) {
		t.Parallel()

		svc := subscription.NewService(newFakeStore(), catalog, nil)
		tenantID := uuid.New()
		_, err := svc.Start(ctx, tenantID, "pro")
		require.NoError(t, err)

		require.NoError(t, svc.Suspend(ctx, tenantID))
		sub, _, err := svc.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusPastDue, sub.Status)

		require.NoError(t, svc.Reactivate(ctx, tenantID))
		sub, plan, err := svc.Get(ctx, tenantID)
		require.NoError(t, err)
		assert.True(t, sub.InGoodStanding())
		assert.Equal(t, "Pro", plan.Name)
	})
}
