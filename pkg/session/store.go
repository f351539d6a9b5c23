package session

import (
	"context"
)

// Store persists sessions. The session store is a separate isolation
// domain from tenant schemas; implementations must remain reachable no
// matter which tenant schema the request is bound to.
type Store interface {
	// Create stores a new session, overwriting any record with the same
	// token (last-writer-wins recreate path).
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token. Returns ErrSessionNotFound on
	// miss and ErrSessionExpired for expired records.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves an existing session. Returns ErrSessionNotFound if the
	// record vanished and ErrUpdateConflict if another writer saved a
	// newer version since this session was loaded.
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all expired sessions.
	DeleteExpired(ctx context.Context) error
}
