package subscription

import "errors"

var (
	// ErrSubscriptionNotFound is returned when the tenant has no
	// subscription record.
	ErrSubscriptionNotFound = errors.New("subscription: not found")

	// ErrSubscriptionExists is returned when the tenant already has a
	// subscription.
	ErrSubscriptionExists = errors.New("subscription: already exists")

	// ErrPlanNotFound is returned for unknown plan ids.
	ErrPlanNotFound = errors.New("subscription: plan not found")

	// ErrInvalidCatalog is returned for a malformed plan catalog.
	ErrInvalidCatalog = errors.New("subscription: invalid plan catalog")

	// ErrInvalidStatus is returned for an unknown lifecycle status.
	ErrInvalidStatus = errors.New("subscription: invalid status")
)
