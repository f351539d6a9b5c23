package registrar

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handle encodes everything needed to reach a tenant's isolated storage.
// Callers acquire schema-bound connections through it instead of passing
// the tenant around data-access code.
type Handle struct {
	tenantID   uuid.UUID
	schemaName string
	pool       Pool
}

// TenantID returns the owning tenant's id.
func (h *Handle) TenantID() uuid.UUID { return h.tenantID }

// SchemaName returns the bound schema.
func (h *Handle) SchemaName() string { return h.schemaName }

// Acquire checks out a pooled connection with its search_path bound to the
// tenant schema. The caller must Release the connection; Release restores
// the search_path before the connection returns to the pool so schema
// state never leaks across requests.
func (h *Handle) Acquire(ctx context.Context) (*Conn, error) {
	poolConn, err := h.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire tenant connection: %w", err)
	}

	schema := pgx.Identifier{h.schemaName}.Sanitize()
	if _, err := poolConn.Exec(ctx, "SET search_path TO "+schema+", public"); err != nil {
		poolConn.Release()
		return nil, fmt.Errorf("bind search_path to %q: %w", h.schemaName, err)
	}

	return &Conn{conn: poolConn}, nil
}

// Conn is a schema-bound database connection for one tenant.
type Conn struct {
	conn *pgxpool.Conn
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.conn.Exec(ctx, sql, args...)
}

func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

func (c *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.conn.QueryRow(ctx, sql, args...)
}

// Release resets the search_path and returns the connection to the pool.
// If the reset fails the connection is destroyed instead of being reused
// with a stale schema binding.
func (c *Conn) Release() {
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Exec(context.Background(), "SET search_path TO public"); err != nil {
		_ = c.conn.Hijack().Close(context.Background())
		c.conn = nil
		return
	}
	c.conn.Release()
	c.conn = nil
}
