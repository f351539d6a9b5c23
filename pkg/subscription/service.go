package subscription

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service combines the subscription store with the plan catalog.
type Service struct {
	store   Store
	catalog *Catalog
	log     *slog.Logger
}

// NewService creates a subscription service.
func NewService(store Store, catalog *Catalog, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, catalog: catalog, log: log}
}

// Catalog returns the loaded plan catalog.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Start creates a subscription for the tenant on the given plan. An empty
// plan id picks the catalog default. Plans with a trial start trialing,
// the rest start active.
func (s *Service) Start(ctx context.Context, tenantID uuid.UUID, planID string) (*Subscription, error) {
	var plan Plan
	if planID == "" {
		plan = s.catalog.Default()
	} else {
		var err error
		plan, err = s.catalog.Get(planID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sub := &Subscription{
		TenantID:  tenantID,
		PlanID:    plan.ID,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if plan.TrialDays > 0 {
		trialEnd := plan.TrialEndsAt(now)
		sub.Status = StatusTrialing
		sub.TrialEndsAt = &trialEnd
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get returns the tenant's subscription and its plan.
func (s *Service) Get(ctx context.Context, tenantID uuid.UUID) (*Subscription, Plan, error) {
	sub, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return nil, Plan{}, err
	}
	plan, err := s.catalog.Get(sub.PlanID)
	if err != nil {
		// Plan was removed from the catalog after the subscription was
		// created; the subscription record stays authoritative.
		s.log.WarnContext(ctx, "subscription references unknown plan",
			slog.String("tenant_id", tenantID.String()),
			slog.String("plan_id", sub.PlanID))
		return sub, Plan{}, nil
	}
	return sub, plan, nil
}

// Suspend transitions the subscription to past due.
func (s *Service) Suspend(ctx context.Context, tenantID uuid.UUID) error {
	return s.store.SetStatus(ctx, tenantID, StatusPastDue)
}

// Reactivate transitions the subscription back to active.
func (s *Service) Reactivate(ctx context.Context, tenantID uuid.UUID) error {
	return s.store.SetStatus(ctx, tenantID, StatusActive)
}

// Cancel cancels the subscription.
func (s *Service) Cancel(ctx context.Context, tenantID uuid.UUID) error {
	return s.store.Cancel(ctx, tenantID)
}
