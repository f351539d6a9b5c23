package httpserver

import "errors"

var (
	// ErrStart is returned when the server fails to start or run.
	ErrStart = errors.New("httpserver: failed to start")

	// ErrShutdown is returned when graceful shutdown fails.
	ErrShutdown = errors.New("httpserver: failed to shut down")
)
