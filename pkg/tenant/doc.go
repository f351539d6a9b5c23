// Package tenant resolves inbound requests to tenants using the
// /business/<slug>/ path convention with hostname bindings as fallback,
// rewrites request paths to their tenant-relative form, and caches
// directory lookups for read-mostly traffic.
package tenant
