package directory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PublicSlug is the routing key of the well-known public tenant that
// unresolved requests fall back to.
const PublicSlug = "public"

// Tenant is one isolated business unit. The schema name is assigned at
// registration and never changes afterwards. OwnerID is a plain integer
// reference into the shared identity store, never a cross-schema foreign
// key.
type Tenant struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	SchemaName string    `json:"schema_name"`
	OwnerID    int64     `json:"owner_id"`
	Active     bool      `json:"active"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsPublic reports whether this is the public fallback tenant.
func (t *Tenant) IsPublic() bool {
	return t != nil && t.Slug == PublicSlug
}

// DomainBinding maps a hostname to a tenant. Bindings are created lazily
// on first resolution and deactivated rather than deleted.
type DomainBinding struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Domain    string    `json:"domain"`
	IsPrimary bool      `json:"is_primary"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the durable tenant directory.
type Store interface {
	// Create inserts the tenant row and provisions its isolated schema in
	// one transaction.
	Create(ctx context.Context, t *Tenant) error

	// GetByID retrieves a tenant by id. Returns ErrTenantNotFound on miss.
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// GetBySlug retrieves a tenant by routing key. Returns
	// ErrTenantNotFound on miss.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)

	// GetByDomain retrieves the tenant bound to a hostname via an active
	// domain binding. Returns ErrTenantNotFound on miss.
	GetByDomain(ctx context.Context, domain string) (*Tenant, error)

	// EnsureBinding gets or creates a domain binding for the tenant. The
	// first binding for a tenant is marked primary. Safe under concurrent
	// first requests for the same tenant.
	EnsureBinding(ctx context.Context, tenantID uuid.UUID, domain string) (*DomainBinding, error)

	// DeactivateBinding marks a binding inactive. Bindings are never deleted.
	DeactivateBinding(ctx context.Context, tenantID uuid.UUID, domain string) error

	// SetActive flips the tenant's active flag.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// SetVerified flips the tenant's verification flag.
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}
