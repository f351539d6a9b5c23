package session

import (
	"context"
	"log/slog"

	"github.com/washlane/washlane/pkg/identity"
)

type contextKey struct{}

type snapshotContextKey struct{}

type principalContextKey struct{}

// WithSession stores the session in the context.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext retrieves the session from the context.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok
}

// MustFromContext retrieves the session or panics. Use in handlers that
// run strictly after the continuity middleware.
func MustFromContext(ctx context.Context) *Session {
	sess, ok := FromContext(ctx)
	if !ok {
		panic("session: no session in context")
	}
	return sess
}

func withSnapshot(ctx context.Context, snap Snapshot, captured bool) context.Context {
	return context.WithValue(ctx, snapshotContextKey{}, capturedSnapshot{snap: snap, ok: captured})
}

func snapshotFromContext(ctx context.Context) (Snapshot, bool, bool) {
	cs, present := ctx.Value(snapshotContextKey{}).(capturedSnapshot)
	if !present {
		return Snapshot{}, false, false
	}
	return cs.snap, cs.ok, true
}

type capturedSnapshot struct {
	snap Snapshot
	ok   bool
}

// WithPrincipal stores the reconciled principal in the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the reconciled principal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// MustPrincipalFromContext retrieves the principal or panics.
func MustPrincipalFromContext(ctx context.Context) Principal {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		panic("session: no principal in context")
	}
	return p
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(ctx context.Context) (*identity.User, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, false
	}
	auth, ok := p.(Authenticated)
	if !ok || auth.User == nil {
		return nil, false
	}
	return auth.User, true
}

// LoggerExtractor injects the session id into log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		sess, ok := FromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("session_id", sess.ID.String()), true
	}
}

// UserLoggerExtractor injects the authenticated user id into log records.
func UserLoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		sess, ok := FromContext(ctx)
		if !ok || sess.UserID == nil {
			return slog.Attr{}, false
		}
		return slog.Int64("user_id", *sess.UserID), true
	}
}
