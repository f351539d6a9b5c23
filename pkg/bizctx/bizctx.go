package bizctx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/session"
)

// Context is the published business context for one request. Fields are
// unexported: downstream handlers read through accessors and never mutate
// what the publisher resolved.
type Context struct {
	tenant     *directory.Tenant
	employee   *employee.Employee
	isOwner    bool
	isVerified bool
}

// Tenant returns the resolved business.
func (c *Context) Tenant() *directory.Tenant { return c.tenant }

// Employee returns the caller's employee record within the business, or
// nil for anonymous callers and callers without a record. For the owner
// this is the auto-provisioned owner record.
func (c *Context) Employee() *employee.Employee { return c.employee }

// IsOwner reports whether the caller owns the business.
func (c *Context) IsOwner() bool { return c.isOwner }

// IsVerified reports whether the business passed verification.
func (c *Context) IsVerified() bool { return c.isVerified }

// Publisher resolves and publishes the business context after the
// suspension gate passes.
type Publisher struct {
	log *slog.Logger
}

// NewPublisher creates a business context publisher.
func NewPublisher(log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{log: log}
}

// Resolve builds the business context for the caller. The owner gets an
// employee record provisioned on first contact: a get-or-create keyed by
// user id, so concurrent first requests still end with one record.
func (p *Publisher) Resolve(ctx context.Context, tn *directory.Tenant, principal session.Principal, employees employee.Store) (*Context, error) {
	bc := &Context{
		tenant:     tn,
		isVerified: tn.Verified,
	}

	auth, ok := principal.(session.Authenticated)
	if !ok || auth.User == nil || tn.IsPublic() {
		return bc, nil
	}

	if auth.User.ID == tn.OwnerID {
		bc.isOwner = true
		emp, err := employees.GetOrCreateOwner(ctx, auth.User.ID)
		if err != nil {
			return nil, fmt.Errorf("provision owner employee: %w", err)
		}
		bc.employee = emp
		return bc, nil
	}

	emp, err := employees.GetByUserID(ctx, auth.User.ID)
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		// Authenticated but not staff: customers browsing a business.
	case err != nil:
		return nil, fmt.Errorf("resolve employee: %w", err)
	default:
		bc.employee = emp
	}
	return bc, nil
}
