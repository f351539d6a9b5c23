package tenant

import "errors"

var (
	// ErrDirectoryUnavailable is returned when the tenant directory cannot
	// be reached for a tenant-looking path.
	ErrDirectoryUnavailable = errors.New("tenant: directory unavailable")

	// ErrNoResolutionInContext is returned when a pipeline stage runs
	// without the resolver middleware ahead of it.
	ErrNoResolutionInContext = errors.New("tenant: no resolution in context")
)
