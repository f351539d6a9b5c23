package registrar

import "context"

type contextKey struct{}

// WithHandle adds a schema handle to the context.
func WithHandle(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext retrieves the schema handle from the context.
func FromContext(ctx context.Context) (*Handle, bool) {
	h, ok := ctx.Value(contextKey{}).(*Handle)
	return h, ok
}

// MustFromContext retrieves the handle or panics. Only for code that is
// guaranteed to run behind the registrar middleware on tenant paths.
func MustFromContext(ctx context.Context) *Handle {
	h, ok := FromContext(ctx)
	if !ok || h == nil {
		panic("registrar: no schema handle in context")
	}
	return h
}
