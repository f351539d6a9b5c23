package registrar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/washlane/washlane/pkg/directory"
)

var schemaNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// Pool is the connection-pool surface the registrar needs: schema
// verification plus checkout for schema-bound handles. *pgxpool.Pool
// satisfies it.
type Pool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
}

// Registrar hands out data-access handles bound to tenant schemas.
// Registration is lazy and idempotent: the first request for a tenant
// verifies its schema and caches the handle, subsequent requests reuse it.
// A failed registration leaves the cache untouched, so one bad request
// never poisons future ones.
type Registrar struct {
	pool Pool
	log  *slog.Logger

	mu      sync.RWMutex
	handles map[uuid.UUID]*Handle
}

// New creates a Registrar on top of the shared connection pool.
func New(pool Pool, log *slog.Logger) *Registrar {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registrar{
		pool:    pool,
		log:     log,
		handles: make(map[uuid.UUID]*Handle),
	}
}

// Register guarantees a handle for the tenant, creating it on first use.
// Two concurrent first requests for the same tenant both succeed and end
// up sharing one handle (get-or-create, never blind overwrite).
func (r *Registrar) Register(ctx context.Context, t *directory.Tenant) (*Handle, error) {
	r.mu.RLock()
	h, ok := r.handles[t.ID]
	r.mu.RUnlock()
	if ok {
		return h, nil
	}

	if !schemaNamePattern.MatchString(t.SchemaName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSchemaName, t.SchemaName)
	}

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`,
		t.SchemaName,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("verify schema %q: %w", t.SchemaName, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrSchemaMissing, t.SchemaName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have registered while we verified; keep theirs.
	if h, ok := r.handles[t.ID]; ok {
		return h, nil
	}
	h = &Handle{tenantID: t.ID, schemaName: t.SchemaName, pool: r.pool}
	r.handles[t.ID] = h

	r.log.InfoContext(ctx, "registered tenant schema handle",
		"tenant_id", t.ID, "schema", t.SchemaName)
	return h, nil
}

// Registered reports whether a handle already exists for the tenant.
func (r *Registrar) Registered(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[id]
	return ok
}
