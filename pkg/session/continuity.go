package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"net/http"

	"github.com/washlane/washlane/pkg/identity"
)

// Snapshot is an immutable record of session state taken before the
// request is rebound to a tenant schema. It carries everything needed to
// reconstruct the session afterwards, whatever happened to the backing
// record in between.
type Snapshot struct {
	Token  string
	UserID *int64
	Data   map[string]any
}

// Continuity carries a session across the schema rebinding boundary. The
// request walks a fixed sequence: Capture before rebinding, Restore and
// Reconcile after, Persist once the handler returns.
type Continuity struct {
	manager *Manager
	users   identity.Store
	log     *slog.Logger
}

// NewContinuity creates a continuity coordinator.
func NewContinuity(manager *Manager, users identity.Store, log *slog.Logger) *Continuity {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Continuity{manager: manager, users: users, log: log}
}

// Capture snapshots the request's session before rebinding. A request
// without a usable session yields ok=false.
func (c *Continuity) Capture(ctx context.Context, r *http.Request) (Snapshot, bool) {
	sess, err := c.manager.Load(ctx, r)
	if err != nil {
		return Snapshot{}, false
	}

	snap := Snapshot{Token: sess.Token, UserID: sess.UserID}
	if len(sess.Data) > 0 {
		snap.Data = make(map[string]any, len(sess.Data))
		maps.Copy(snap.Data, sess.Data)
	}
	return snap, true
}

// Restore reattaches the session after rebinding. The live record is
// reloaded from the store; any key present in the snapshot but missing
// from the reloaded record is reapplied, so the restored payload is a
// superset of what was captured. A record that vanished mid-request is
// rebuilt from the snapshot under the same token. Without a snapshot a
// fresh anonymous session is started.
func (c *Continuity) Restore(ctx context.Context, w http.ResponseWriter, snap Snapshot, captured bool) (*Session, error) {
	if !captured {
		return c.manager.Start(ctx, w)
	}

	sess, err := c.manager.store.Get(ctx, snap.Token)
	switch {
	case err == nil:
		for k, v := range snap.Data {
			if _, exists := sess.Data[k]; !exists {
				sess.Set(k, v)
			}
		}
		return sess, nil
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		c.log.DebugContext(ctx, "session record lost across rebinding, rebuilding from snapshot")
		_, maxLifetime := c.manager.cfg.GetTimeouts(snap.UserID != nil)
		sess = NewSession(snap.Token, snap.UserID, maxLifetime)
		for k, v := range snap.Data {
			sess.Data[k] = v
		}
		if err := c.manager.store.Create(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	default:
		return nil, err
	}
}

// Reconcile checks the session's user reference against the identity
// store. A reference that no longer resolves demotes the session to
// anonymous rather than failing the request; only infrastructure errors
// propagate.
func (c *Continuity) Reconcile(ctx context.Context, sess *Session) (Principal, error) {
	if !sess.IsAuthenticated() {
		return Anonymous{Reason: "no credentials"}, nil
	}

	user, err := c.users.GetByID(ctx, *sess.UserID)
	if errors.Is(err, identity.ErrUserNotFound) {
		c.log.WarnContext(ctx, "session user no longer exists, demoting to anonymous",
			slog.Int64("user_id", *sess.UserID))
		sess.UserID = nil
		sess.dirty = true
		return Anonymous{Reason: "identity mismatch"}, nil
	}
	if err != nil {
		return nil, err
	}
	return Authenticated{User: user}, nil
}

// Persist writes back a modified session, downgrading save conflicts to a
// recreate under the same token.
func (c *Continuity) Persist(ctx context.Context, sess *Session) error {
	return c.manager.Persist(ctx, sess)
}
