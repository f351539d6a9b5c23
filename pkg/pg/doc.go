// Package pg provides PostgreSQL connection pooling, migrations, and
// health checks on top of pgx.
package pg
