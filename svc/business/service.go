package business

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/employee"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/registrar"
	"github.com/washlane/washlane/pkg/slug"
	"github.com/washlane/washlane/pkg/subscription"
)

// SchemaRegistrar registers tenant schemas and returns their handles.
type SchemaRegistrar interface {
	Register(ctx context.Context, t *directory.Tenant) (*registrar.Handle, error)
}

// EmployeeStoreFactory builds an employee store over a schema handle.
type EmployeeStoreFactory func(*registrar.Handle) employee.Store

// Service registers new businesses: tenant row, isolated schema, owner
// employee record and starting subscription in one operation.
type Service struct {
	tenants   directory.Store
	users     identity.Store
	schemas   SchemaRegistrar
	subs      *subscription.Service
	employees EmployeeStoreFactory
	log       *slog.Logger
}

// Option configures the registration service.
type Option func(*Service)

// WithEmployeeStores overrides how employee stores are built from schema
// handles.
func WithEmployeeStores(factory EmployeeStoreFactory) Option {
	return func(s *Service) { s.employees = factory }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a business registration service.
func NewService(tenants directory.Store, users identity.Store, schemas SchemaRegistrar, subs *subscription.Service, opts ...Option) *Service {
	s := &Service{
		tenants: tenants,
		users:   users,
		schemas: schemas,
		subs:    subs,
		employees: func(h *registrar.Handle) employee.Store {
			return employee.NewStore(h)
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput is the business registration request. Slug is optional;
// when empty it is derived from the name. PlanID is optional; when empty
// the catalog default applies.
type RegisterInput struct {
	Name    string
	Slug    string
	OwnerID int64
	PlanID  string
}

// Register creates the business. The routing slug is normalized, the
// schema name derived from it is immutable from this point on, and the
// owner gets an employee record inside the fresh schema immediately so
// their first request never races the auto-provisioning path.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*directory.Tenant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}

	owner, err := s.users.GetByID(ctx, in.OwnerID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	derived := in.Slug == ""
	routingKey := in.Slug
	if derived {
		routingKey = slug.Make(in.Name)
	}
	if !slug.Valid(routingKey) || routingKey == directory.PublicSlug {
		return nil, ErrInvalidSlug
	}

	tn, err := s.createTenant(ctx, in.Name, routingKey, owner.ID)
	if errors.Is(err, directory.ErrDuplicateSlug) && derived {
		// Derived slug collided with an existing business; retry once
		// with a random suffix before giving up.
		routingKey = slug.Make(in.Name, slug.WithSuffix(6))
		tn, err = s.createTenant(ctx, in.Name, routingKey, owner.ID)
	}
	if err != nil {
		return nil, err
	}

	handle, err := s.schemas.Register(ctx, tn)
	if err != nil {
		return nil, fmt.Errorf("register tenant schema: %w", err)
	}

	if _, err := s.employees(handle).GetOrCreateOwner(ctx, owner.ID); err != nil {
		return nil, fmt.Errorf("provision owner employee: %w", err)
	}

	if _, err := s.subs.Start(ctx, tn.ID, in.PlanID); err != nil {
		return nil, fmt.Errorf("start subscription: %w", err)
	}

	s.log.InfoContext(ctx, "business registered",
		slog.String("tenant_id", tn.ID.String()),
		slog.String("slug", tn.Slug),
		slog.Int64("owner_id", owner.ID))
	return tn, nil
}

func (s *Service) createTenant(ctx context.Context, name, routingKey string, ownerID int64) (*directory.Tenant, error) {
	tn := &directory.Tenant{
		ID:         uuid.New(),
		Name:       name,
		Slug:       routingKey,
		SchemaName: schemaNameFor(routingKey),
		OwnerID:    ownerID,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.tenants.Create(ctx, tn); err != nil {
		return nil, err
	}
	return tn, nil
}

// schemaNameFor derives a Postgres schema name from the routing slug.
// Hyphens become underscores and a fixed prefix keeps the name clear of
// reserved schemas; the result is assigned once and never changes.
func schemaNameFor(routingKey string) string {
	return "biz_" + strings.ReplaceAll(routingKey, "-", "_")
}
