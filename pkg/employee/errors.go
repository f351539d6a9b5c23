package employee

import "errors"

var (
	// ErrEmployeeNotFound is returned when the user has no employee record
	// in the current business.
	ErrEmployeeNotFound = errors.New("employee: not found")

	// ErrDuplicateEmployee is returned when the user already has an
	// employee record in the current business.
	ErrDuplicateEmployee = errors.New("employee: already exists")
)
