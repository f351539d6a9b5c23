package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Event is one append-only audit record.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  string         `json:"tenant_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource,omitempty"`
	Result    Result         `json:"result"`
	Reason    string         `json:"reason,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks required event fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithResource tags the event with the acted-on resource.
func WithResource(resource string) EventOption {
	return func(e *Event) { e.Resource = resource }
}

// WithReason records why the action was taken.
func WithReason(reason string) EventOption {
	return func(e *Event) { e.Reason = reason }
}

// WithMetadata attaches arbitrary key/value detail.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithTenantID overrides the tenant id extracted from context.
func WithTenantID(id string) EventOption {
	return func(e *Event) { e.TenantID = id }
}

// WithUserID overrides the user id extracted from context.
func WithUserID(id string) EventOption {
	return func(e *Event) { e.UserID = id }
}
