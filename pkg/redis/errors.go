package redis

import "errors"

var (
	// ErrFailedToParseConnString is returned when the connection URL is invalid.
	ErrFailedToParseConnString = errors.New("redis: failed to parse connection string")

	// ErrNotReady is returned when all connection attempts fail.
	ErrNotReady = errors.New("redis: server not ready")
)
