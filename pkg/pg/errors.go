package pg

import "errors"

var (
	// ErrFailedToParseDBConfig is returned when the connection string is invalid.
	ErrFailedToParseDBConfig = errors.New("pg: failed to parse database config")

	// ErrFailedToOpenDBConnection is returned when all connection attempts fail.
	ErrFailedToOpenDBConnection = errors.New("pg: failed to open database connection")

	// ErrFailedToApplyMigrations is returned when migrations cannot be applied.
	ErrFailedToApplyMigrations = errors.New("pg: failed to apply migrations")

	// ErrMigrationPathNotProvided is returned when the migrations path is empty.
	ErrMigrationPathNotProvided = errors.New("pg: migrations path not provided")

	// ErrMigrationsDirNotFound is returned when the migrations directory does not exist.
	ErrMigrationsDirNotFound = errors.New("pg: migrations directory not found")
)
