package directory

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaNamePattern restricts schema names to safe identifier characters.
// Schema names are interpolated into DDL, so this is load-bearing.
var schemaNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// PostgresStore implements Store against the shared platform schema.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a directory store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const tenantColumns = `id, name, slug, schema_name, owner_id, active, verified, created_at`

func scanTenant(row pgx.Row) (*Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.SchemaName, &t.OwnerID, &t.Active, &t.Verified, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &t, nil
}

// Create inserts the tenant row and provisions its isolated schema with the
// tenant-scoped tables in a single transaction, so a failed provisioning
// never leaves a routable tenant without storage.
func (s *PostgresStore) Create(ctx context.Context, t *Tenant) error {
	if !schemaNamePattern.MatchString(t.SchemaName) {
		return ErrInvalidSchemaName
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create tenant: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO tenants (id, name, slug, schema_name, owner_id, active, verified, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.Slug, t.SchemaName, t.OwnerID, t.Active, t.Verified, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert tenant: %w", err)
	}

	schema := pgx.Identifier{t.SchemaName}.Sanitize()
	if _, err := tx.Exec(ctx, "CREATE SCHEMA "+schema); err != nil {
		return fmt.Errorf("create tenant schema: %w", err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE %s.employees (
			id         uuid PRIMARY KEY,
			user_id    bigint NOT NULL UNIQUE,
			role       text NOT NULL DEFAULT 'staff',
			status     text NOT NULL DEFAULT 'active',
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now()
		)`, schema)); err != nil {
		return fmt.Errorf("create employees table: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	return scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

func (s *PostgresStore) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	return scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
}

func (s *PostgresStore) GetByDomain(ctx context.Context, domain string) (*Tenant, error) {
	return scanTenant(s.pool.QueryRow(ctx,
		`SELECT t.id, t.name, t.slug, t.schema_name, t.owner_id, t.active, t.verified, t.created_at
		 FROM tenants t
		 JOIN domain_bindings b ON b.tenant_id = t.id
		 WHERE b.domain = $1 AND b.active`, domain))
}

// EnsureBinding is a get-or-create keyed by (tenant_id, domain). Binders
// for the same tenant serialize on the tenant row, so exactly one binding
// becomes primary even when first requests for different domains race;
// the partial unique index on (tenant_id) WHERE is_primary backs the same
// invariant at the schema level.
func (s *PostgresStore) EnsureBinding(ctx context.Context, tenantID uuid.UUID, domain string) (*DomainBinding, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ensure binding: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var one int
	err = tx.QueryRow(ctx, `SELECT 1 FROM tenants WHERE id = $1 FOR UPDATE`, tenantID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock tenant for binding: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO domain_bindings (id, tenant_id, domain, is_primary, active, created_at)
		 SELECT $1, $2, $3,
		        NOT EXISTS (SELECT 1 FROM domain_bindings WHERE tenant_id = $2 AND is_primary),
		        TRUE, now()
		 ON CONFLICT (tenant_id, domain) DO NOTHING`,
		uuid.New(), tenantID, domain)
	if err != nil {
		return nil, fmt.Errorf("ensure domain binding: %w", err)
	}

	var b DomainBinding
	err = tx.QueryRow(ctx,
		`SELECT id, tenant_id, domain, is_primary, active, created_at
		 FROM domain_bindings WHERE tenant_id = $1 AND domain = $2`,
		tenantID, domain,
	).Scan(&b.ID, &b.TenantID, &b.Domain, &b.IsPrimary, &b.Active, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("read domain binding: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ensure binding: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) DeactivateBinding(ctx context.Context, tenantID uuid.UUID, domain string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE domain_bindings SET active = FALSE WHERE tenant_id = $1 AND domain = $2`,
		tenantID, domain)
	if err != nil {
		return fmt.Errorf("deactivate domain binding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (s *PostgresStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set tenant active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func (s *PostgresStore) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET verified = $2 WHERE id = $1`, id, verified)
	if err != nil {
		return fmt.Errorf("set tenant verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTenantNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
