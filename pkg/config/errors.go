package config

import "errors"

var (
	// ErrNilPointer is returned when Load is called with a nil target.
	ErrNilPointer = errors.New("config: nil pointer passed to Load")

	// ErrParsingConfig is returned when environment parsing fails.
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrConfigNotLoaded is returned when a cached value is unexpectedly missing.
	ErrConfigNotLoaded = errors.New("config: configuration not loaded")
)
