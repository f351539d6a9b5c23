package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Healthcheck returns a function suitable for readiness probes.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}
