package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/washlane/washlane/pkg/directory"
)

type contextKey struct{}

// WithResolution adds a tenant resolution to the context.
func WithResolution(ctx context.Context, res *Resolution) context.Context {
	return context.WithValue(ctx, contextKey{}, res)
}

// FromContext retrieves the resolution from the context.
func FromContext(ctx context.Context) (*Resolution, bool) {
	res, ok := ctx.Value(contextKey{}).(*Resolution)
	return res, ok
}

// MustFromContext retrieves the resolution or panics. Only for handlers
// that are guaranteed to run behind the resolver middleware.
func MustFromContext(ctx context.Context) *Resolution {
	res, ok := FromContext(ctx)
	if !ok || res == nil {
		panic("tenant: no resolution in context")
	}
	return res
}

// CurrentTenant retrieves the resolved tenant from the context.
func CurrentTenant(ctx context.Context) (*directory.Tenant, bool) {
	res, ok := FromContext(ctx)
	if !ok || res == nil || res.Tenant == nil {
		return nil, false
	}
	return res.Tenant, true
}

// IDFromContext retrieves just the resolved tenant's id.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	t, ok := CurrentTenant(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return t.ID, true
}

// LoggerExtractor injects the resolved tenant id into log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
