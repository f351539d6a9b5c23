package session

import "errors"

var (
	// ErrSessionNotFound is returned when no session matches the token.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrSessionExpired is returned for expired sessions.
	ErrSessionExpired = errors.New("session: expired")

	// ErrInvalidSession is returned for malformed sessions.
	ErrInvalidSession = errors.New("session: invalid")

	// ErrUpdateConflict is returned when a concurrent writer saved a newer
	// version of the session.
	ErrUpdateConflict = errors.New("session: update conflict")

	// ErrTokenGeneration is returned when secure token generation fails.
	ErrTokenGeneration = errors.New("session: token generation failed")
)
