// Package registrar manages per-tenant schema handles: lazy, idempotent
// registration of data-access handles cached by tenant id, and acquisition
// of connections whose search_path is bound to the tenant's isolated
// schema for the duration of a request.
package registrar
