package session

import "github.com/washlane/washlane/pkg/identity"

// Principal is the reconciled caller identity for a request. It is a
// closed set of outcomes, so callers switch on the concrete type instead
// of probing optional fields.
type Principal interface {
	isPrincipal()
}

// Anonymous is an unauthenticated caller. Reason records why the caller
// ended up anonymous when it arrived with credentials.
type Anonymous struct {
	Reason string
}

func (Anonymous) isPrincipal() {}

// Authenticated is a caller with a resolved identity record.
type Authenticated struct {
	User *identity.User
}

func (Authenticated) isPrincipal() {}
