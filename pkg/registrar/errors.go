package registrar

import "errors"

var (
	// ErrSchemaMissing is returned when the tenant's schema does not exist.
	ErrSchemaMissing = errors.New("registrar: tenant schema missing")

	// ErrInvalidSchemaName is returned when the schema name fails validation.
	ErrInvalidSchemaName = errors.New("registrar: invalid schema name")

	// ErrNoHandleInContext is returned when tenant-scoped data access is
	// attempted without a registered handle.
	ErrNoHandleInContext = errors.New("registrar: no schema handle in context")
)
