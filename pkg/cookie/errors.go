package cookie

import "errors"

var (
	// ErrNoSecret is returned when no signing secret is provided.
	ErrNoSecret = errors.New("cookie: no secret provided")

	// ErrSecretTooShort is returned when a signing secret is too short.
	ErrSecretTooShort = errors.New("cookie: secret too short")

	// ErrCookieNotFound is returned when the named cookie is absent.
	ErrCookieNotFound = errors.New("cookie: not found")

	// ErrInvalidSignature is returned when signature verification fails.
	ErrInvalidSignature = errors.New("cookie: invalid signature")
)
