package subscription

import (
	"context"

	"github.com/google/uuid"
)

// Store persists subscriptions in platform-shared storage.
type Store interface {
	// Get retrieves a tenant's subscription. Returns
	// ErrSubscriptionNotFound when the tenant has none.
	Get(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)

	// Create inserts a subscription. Returns ErrSubscriptionExists when
	// the tenant already has one.
	Create(ctx context.Context, sub *Subscription) error

	// SetStatus transitions the subscription's lifecycle status.
	SetStatus(ctx context.Context, tenantID uuid.UUID, status Status) error

	// Cancel marks the subscription cancelled and records when.
	Cancel(ctx context.Context, tenantID uuid.UUID) error
}
