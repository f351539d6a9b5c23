// Package httpserver wraps net/http with graceful shutdown and
// signal-aware lifecycle management.
package httpserver
