// Package logger builds configured slog loggers with context-aware
// attribute injection for request-scoped values such as tenant and user
// identifiers.
package logger
