package registrar_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/registrar"
)

type fakeRow struct {
	exists bool
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*bool)) = r.exists
	return nil
}

// fakePool answers the schema-exists verification query; Acquire is never
// reached because no test touches tenant data.
type fakePool struct {
	exists  bool
	err     error
	queries atomic.Int64
}

func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	p.queries.Add(1)
	return fakeRow{exists: p.exists, err: p.err}
}

func (p *fakePool) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("no connections in test pool")
}

func testTenant() *directory.Tenant {
	return &directory.Tenant{
		ID:         uuid.New(),
		Name:       "Acme Wash",
		Slug:       "acme-wash",
		SchemaName: "biz_acme_wash",
		Active:     true,
	}
}

func TestRegistrarRegister(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("second registration reuses the handle", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{exists: true}
		r := registrar.New(pool, log)
		tn := testTenant()

		h1, err := r.Register(context.Background(), tn)
		require.NoError(t, err)
		h2, err := r.Register(context.Background(), tn)
		require.NoError(t, err)

		assert.Same(t, h1, h2)
		assert.Equal(t, int64(1), pool.queries.Load())
		assert.Equal(t, tn.SchemaName, h1.SchemaName())
	})

	t.Run("concurrent first registrations share one handle", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{exists: true}
		r := registrar.New(pool, log)
		tn := testTenant()

		handles := make([]*registrar.Handle, 10)
		var wg sync.WaitGroup
		for i := range handles {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				h, err := r.Register(context.Background(), tn)
				assert.NoError(t, err)
				handles[i] = h
			}()
		}
		wg.Wait()

		for _, h := range handles {
			assert.Same(t, handles[0], h)
		}
		assert.True(t, r.Registered(tn.ID))
	})

	t.Run("failed verification does not poison the cache", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{err: errors.New("connection refused")}
		r := registrar.New(pool, log)
		tn := testTenant()

		_, err := r.Register(context.Background(), tn)
		require.Error(t, err)
		assert.False(t, r.Registered(tn.ID))

		pool.err = nil
		pool.exists = true
		h, err := r.Register(context.Background(), tn)
		require.NoError(t, err)
		assert.NotNil(t, h)
		assert.True(t, r.Registered(tn.ID))
	})

	t.Run("missing schema is rejected", func(t *testing.T) {
		t.Parallel()

		r := registrar.New(&fakePool{exists: false}, log)
		_, err := r.Register(context.Background(), testTenant())
		require.ErrorIs(t, err, registrar.ErrSchemaMissing)
	})

	t.Run("invalid schema name never reaches the database", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{exists: true}
		r := registrar.New(pool, log)
		tn := testTenant()
		tn.SchemaName = `biz; DROP TABLE tenants`

		_, err := r.Register(context.Background(), tn)
		require.ErrorIs(t, err, registrar.ErrInvalidSchemaName)
		assert.Equal(t, int64(0), pool.queries.Load())
	})
}
