package session

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is one user session. UserID is a plain integer reference into
// the identity store; a nil UserID means anonymous. Version increments on
// every successful save and drives conflict detection at persist time.
type Session struct {
	ID             uuid.UUID      `json:"id"`
	Token          string         `json:"token"`
	UserID         *int64         `json:"user_id,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
	Version        int64          `json:"version"`
	ExpiresAt      time.Time      `json:"expires_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
	CreatedAt      time.Time      `json:"created_at"`

	dirty bool
}

// NewSession creates a session with the given token and lifetime.
func NewSession(token string, userID *int64, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		UserID:         userID,
		Data:           make(map[string]any),
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated reports whether the session carries a user id.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != nil
}

// IsExpired reports whether the session has expired.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Dirty reports whether the session has unsaved modifications.
func (s *Session) Dirty() bool {
	return s != nil && s.dirty
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt64 retrieves an integer value from session data. JSON round-trips
// turn numbers into float64, so both forms are accepted.
func (s *Session) GetInt64(key string) (int64, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// Set stores a value in session data and marks the session dirty.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
	s.dirty = true
}

// Delete removes a value from session data.
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	if _, ok := s.Data[key]; ok {
		delete(s.Data, key)
		s.dirty = true
	}
}

// Clear removes all data from the session.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Data = make(map[string]any)
	s.dirty = true
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}

// clone returns a deep copy safe to hand across store boundaries.
func (s *Session) clone() *Session {
	cp := *s
	if s.Data != nil {
		cp.Data = make(map[string]any, len(s.Data))
		maps.Copy(cp.Data, s.Data)
	}
	return &cp
}
