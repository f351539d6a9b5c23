package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const tokenBytes = 32

// Manager owns session lifecycle: load, create, authenticate, destroy and
// persist. It never reads or writes tenant storage; the session store and
// the token transport are both tenant-independent.
type Manager struct {
	store     Store
	transport Transport
	cfg       Config
	log       *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig overrides the default session configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) { m.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a session manager.
func NewManager(store Store, transport Transport, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		transport: transport,
		cfg:       DefaultConfig(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the manager's effective configuration.
func (m *Manager) Config() Config { return m.cfg }

// Load fetches the session referenced by the request's token.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(ctx, token)
}

// Start creates a fresh anonymous session and attaches its token to the
// response.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	_, maxLifetime := m.cfg.GetTimeouts(false)
	sess := NewSession(token, nil, maxLifetime)
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := m.transport.SetToken(w, token, maxLifetime); err != nil {
		return nil, fmt.Errorf("set session token: %w", err)
	}
	return sess, nil
}

// Ensure returns the request's session, creating an anonymous one when the
// request carries no usable token.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess, err := m.Load(ctx, r)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
		return m.Start(ctx, w)
	}
	return nil, err
}

// Authenticate binds a user to the session. The token is rotated to
// prevent fixation: the old record is deleted and a new one created with
// the authenticated lifetime, carrying the existing payload over.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, sess *Session, userID int64) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	_, maxLifetime := m.cfg.GetTimeouts(true)
	next := NewSession(token, &userID, maxLifetime)
	if sess != nil {
		for k, v := range sess.Data {
			next.Data[k] = v
		}
		if err := m.store.Delete(ctx, sess.Token); err != nil {
			m.log.WarnContext(ctx, "failed to drop pre-auth session", slog.Any("error", err))
		}
	}

	if err := m.store.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("create authenticated session: %w", err)
	}
	if err := m.transport.SetToken(w, token, maxLifetime); err != nil {
		return nil, fmt.Errorf("set session token: %w", err)
	}
	return next, nil
}

// Destroy deletes the session and clears the client token.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if sess != nil {
		if err := m.store.Delete(ctx, sess.Token); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	return m.transport.ClearToken(w)
}

// Persist saves a modified session. A version conflict or a vanished
// record does not fail the request: the session is recreated under the
// same token, so the last writer wins.
func (m *Manager) Persist(ctx context.Context, sess *Session) error {
	if sess == nil || !sess.Dirty() {
		return nil
	}

	sess.Touch()
	err := m.store.Update(ctx, sess)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpdateConflict) || errors.Is(err, ErrSessionNotFound) {
		m.log.DebugContext(ctx, "session save conflict, recreating",
			slog.String("session_id", sess.ID.String()))
		if sess.IsExpired() {
			sess.ExpiresAt = time.Now().Add(firstNonZero(m.cfg.GetTimeouts(sess.IsAuthenticated())))
		}
		return m.store.Create(ctx, sess)
	}
	return err
}

func firstNonZero(idle, max time.Duration) time.Duration {
	if max > 0 {
		return max
	}
	return idle
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
