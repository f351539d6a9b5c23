package gate

import "errors"

var (
	// ErrNoEmployeeStore is returned when the employee stage runs without
	// access to the tenant's employee store.
	ErrNoEmployeeStore = errors.New("gate: no employee store for tenant")
)
