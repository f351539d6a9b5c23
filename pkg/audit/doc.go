// Package audit records append-only events for sensitive platform
// actions: suspensions, reactivations and superuser gate bypasses.
//
// Events land in the shared audit_events table, never inside a tenant
// schema. Tenant and user ids are attached automatically via context
// extractors wired at construction.
package audit
