package bizctx

import "context"

type contextKey struct{}

// WithContext stores the published business context.
func WithContext(ctx context.Context, bc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, bc)
}

// FromContext retrieves the published business context.
func FromContext(ctx context.Context) (*Context, bool) {
	bc, ok := ctx.Value(contextKey{}).(*Context)
	return bc, ok
}

// MustFromContext retrieves the business context or panics. Only for
// handlers guaranteed to run behind the publisher middleware.
func MustFromContext(ctx context.Context) *Context {
	bc, ok := FromContext(ctx)
	if !ok || bc == nil {
		panic("bizctx: no business context in context")
	}
	return bc
}
