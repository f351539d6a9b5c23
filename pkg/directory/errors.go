package directory

import "errors"

var (
	// ErrTenantNotFound is returned when no tenant matches the lookup.
	ErrTenantNotFound = errors.New("directory: tenant not found")

	// ErrDuplicateSlug is returned when the routing key is already taken.
	ErrDuplicateSlug = errors.New("directory: slug already in use")

	// ErrInvalidSchemaName is returned when the schema name fails validation.
	ErrInvalidSchemaName = errors.New("directory: invalid schema name")
)
