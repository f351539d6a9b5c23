package business

import "errors"

var (
	// ErrNameRequired is returned when the business name is empty.
	ErrNameRequired = errors.New("business: name is required")

	// ErrInvalidSlug is returned for routing keys that cannot be used.
	ErrInvalidSlug = errors.New("business: invalid slug")

	// ErrOwnerNotFound is returned when the owner user does not exist.
	ErrOwnerNotFound = errors.New("business: owner not found")
)
