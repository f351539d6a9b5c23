package audit

import "errors"

var (
	// ErrEventValidation is returned for events missing required fields.
	ErrEventValidation = errors.New("audit: event validation failed")
)
