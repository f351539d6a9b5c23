// Package bizctx publishes the per-request business context once the
// suspension gate has passed: the resolved tenant, the caller's employee
// record (or auto-provisioned owner record), and the business's
// verification flag.
//
// The context is read-only by construction. Downstream handlers never
// special-case "owner without employee row": the publisher provisions a
// minimal owner record on first contact via an idempotent get-or-create.
package bizctx
