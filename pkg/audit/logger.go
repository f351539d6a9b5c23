package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logger records audit events.
type Logger interface {
	// Log records a successful action.
	Log(ctx context.Context, action string, opts ...EventOption) error

	// LogFailure records a denied or failed action.
	LogFailure(ctx context.Context, action string, reason string, opts ...EventOption) error
}

type contextExtractor func(context.Context) (string, bool)

type logger struct {
	storage           Storage
	tenantIDExtractor contextExtractor
	userIDExtractor   contextExtractor
}

// Option configures the audit logger.
type Option func(*logger)

// WithTenantIDExtractor pulls the tenant id from request context.
func WithTenantIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.tenantIDExtractor = fn }
}

// WithUserIDExtractor pulls the user id from request context.
func WithUserIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.userIDExtractor = fn }
}

// NewLogger creates an audit logger over the given storage.
func NewLogger(storage Storage, opts ...Option) Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	l := &logger{storage: storage}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.Action = action
	event.Result = ResultSuccess
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

func (l *logger) LogFailure(ctx context.Context, action string, reason string, opts ...EventOption) error {
	event := l.eventFromContext(ctx)
	event.Action = action
	event.Result = ResultFailure
	event.Reason = reason
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

func (l *logger) eventFromContext(ctx context.Context) Event {
	event := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	if l.tenantIDExtractor != nil {
		if v, ok := l.tenantIDExtractor(ctx); ok {
			event.TenantID = v
		}
	}
	if l.userIDExtractor != nil {
		if v, ok := l.userIDExtractor(ctx); ok {
			event.UserID = v
		}
	}
	return event
}
