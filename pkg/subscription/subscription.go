package subscription

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a tenant's subscription.
type Status string

const (
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusPastDue   Status = "past_due"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusTrialing, StatusActive, StatusPastDue, StatusCancelled:
		return true
	}
	return false
}

// Subscription is a tenant's subscription to a plan. Each tenant has at
// most one subscription row, keyed by tenant id in platform-shared
// storage, never inside the tenant's own schema.
type Subscription struct {
	TenantID    uuid.UUID
	PlanID      string
	Status      Status
	TrialEndsAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsTrialing returns true while the subscription is in its trial period.
func (s *Subscription) IsTrialing() bool {
	return s.Status == StatusTrialing
}

// IsActive returns true for a paid, current subscription.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// IsCancelled returns true once the subscription has been cancelled.
func (s *Subscription) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// IsTrialExpired reports whether the trial window has passed.
func (s *Subscription) IsTrialExpired() bool {
	if s.TrialEndsAt == nil {
		return false
	}
	return time.Now().UTC().After(*s.TrialEndsAt)
}

// InGoodStanding reports whether the subscription entitles the tenant to
// serve traffic: active, or trialing with time left on the trial.
func (s *Subscription) InGoodStanding() bool {
	switch s.Status {
	case StatusActive:
		return true
	case StatusTrialing:
		return !s.IsTrialExpired()
	}
	return false
}

// TrialDaysRemainingAt returns whole days left in the trial at a given
// time, rounding partial days up. Zero when not trialing or expired.
func (s *Subscription) TrialDaysRemainingAt(now time.Time) int {
	if !s.IsTrialing() || s.TrialEndsAt == nil {
		return 0
	}
	remaining := s.TrialEndsAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := remaining.Hours() / 24
	return int(days + 0.5)
}

// TrialDaysRemaining returns whole days left in the trial.
func (s *Subscription) TrialDaysRemaining() int {
	return s.TrialDaysRemainingAt(time.Now().UTC())
}
