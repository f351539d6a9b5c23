package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/washlane/washlane/pkg/audit"
	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/session"
	"github.com/washlane/washlane/pkg/subscription"
)

// Stage identifies which check of the chain blocked a request.
type Stage string

const (
	StageUser         Stage = "user"
	StageBusiness     Stage = "business"
	StageSubscription Stage = "subscription"
	StageEmployee     Stage = "employee"
)

// Decision is the gate's verdict on a request. It is a closed set:
// callers switch on the concrete type.
type Decision interface {
	isDecision()
}

// Pass allows the request through. SuperuserBypass marks the audited
// operator escape hatch.
type Pass struct {
	SuperuserBypass bool
}

func (Pass) isDecision() {}

// Block stops the request at a specific stage. Each stage maps to its own
// terminal response; the stages are never collapsed into a generic error.
type Block struct {
	Stage  Stage
	Reason string
}

func (Block) isDecision() {}

// ExemptPrefixes are paths the gate never evaluates: authentication and
// logout must stay reachable for suspended users, and platform surfaces
// are not tenant-scoped.
var ExemptPrefixes = []string{"/auth/", "/public/", "/static/", "/media/", "/admin/", "/health/"}

// Request is everything the gate needs to evaluate one inbound request.
// Employees is the current tenant's employee store; it is ignored for the
// public tenant.
type Request struct {
	Path      string
	Tenant    *directory.Tenant
	Principal session.Principal
	Employees employee.Store
}

// Gate is the ordered suspension-check chain. Stages run strictly in
// order (user, business, subscription, employee) and the first tripped
// stage wins.
type Gate struct {
	subs     subscription.Store
	auditLog audit.Logger
	log      *slog.Logger
	exempt   []string
}

// Option configures the gate.
type Option func(*Gate)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gate) { g.log = log }
}

// WithExemptPrefixes overrides the default exempt path prefixes.
func WithExemptPrefixes(prefixes []string) Option {
	return func(g *Gate) { g.exempt = prefixes }
}

// New creates a suspension gate.
func New(subs subscription.Store, auditLog audit.Logger, opts ...Option) *Gate {
	g := &Gate{
		subs:     subs,
		auditLog: auditLog,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		exempt:   ExemptPrefixes,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Exempt reports whether a path bypasses the gate entirely.
func (g *Gate) Exempt(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range g.exempt {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Evaluate runs the chain. Infrastructure failures return an error and
// the caller must fail closed; a Block decision is a policy outcome, not
// an error.
func (g *Gate) Evaluate(ctx context.Context, req Request) (Decision, error) {
	if g.Exempt(req.Path) {
		return Pass{}, nil
	}

	user := authenticatedUser(req.Principal)

	if user != nil && user.Superuser {
		if g.auditLog != nil {
			if err := g.auditLog.Log(ctx, "gate.superuser_bypass",
				audit.WithUserID(strconv.FormatInt(user.ID, 10)),
				audit.WithTenantID(tenantID(req.Tenant)),
				audit.WithMetadata("path", req.Path)); err != nil {
				g.log.ErrorContext(ctx, "failed to audit superuser bypass", slog.Any("error", err))
			}
		}
		return Pass{SuperuserBypass: true}, nil
	}

	// Stage 1: user. Applies even outside tenant context.
	if user != nil && user.Suspended {
		return Block{Stage: StageUser, Reason: "your account has been suspended"}, nil
	}

	// The remaining stages are business-scoped.
	if req.Tenant == nil || req.Tenant.IsPublic() {
		return Pass{}, nil
	}

	// Stage 2: business.
	if !req.Tenant.Active {
		return Block{Stage: StageBusiness, Reason: "this business has been suspended"}, nil
	}

	// Stage 3: subscription. A missing record is no restriction: tenants
	// provisioned before subscriptions existed must not be bricked.
	sub, err := g.subs.Get(ctx, req.Tenant.ID)
	switch {
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		g.log.WarnContext(ctx, "tenant has no subscription record, allowing",
			slog.String("tenant_id", req.Tenant.ID.String()))
	case err != nil:
		return nil, fmt.Errorf("load subscription: %w", err)
	case !sub.InGoodStanding():
		return Block{Stage: StageSubscription, Reason: "this business's subscription is suspended"}, nil
	}

	// Stage 4: employee. Authenticated non-owner users only; the owner is
	// never lockable through the employee table.
	if user == nil || user.ID == req.Tenant.OwnerID {
		return Pass{}, nil
	}
	if req.Employees == nil {
		return nil, ErrNoEmployeeStore
	}

	emp, err := req.Employees.GetByUserID(ctx, user.ID)
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound):
		g.log.WarnContext(ctx, "authenticated user has no employee record, allowing",
			slog.String("tenant_id", req.Tenant.ID.String()),
			slog.Int64("user_id", user.ID))
	case err != nil:
		return nil, fmt.Errorf("load employee: %w", err)
	case !emp.IsActive():
		return Block{Stage: StageEmployee, Reason: "your employee access to this business has been revoked"}, nil
	}

	return Pass{}, nil
}

func authenticatedUser(p session.Principal) *identity.User {
	auth, ok := p.(session.Authenticated)
	if !ok {
		return nil
	}
	return auth.User
}

func tenantID(t *directory.Tenant) string {
	if t == nil {
		return ""
	}
	return t.ID.String()
}
