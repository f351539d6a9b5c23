// Package app assembles the washlane request pipeline and platform
// routes. The ordering inside the tenant-scoped group is a hard
// requirement: the session snapshot is captured before the schema
// rebind, restored and reconciled after it, the suspension gate runs on
// the reconciled principal, and the business context is published only
// once the gate has passed.
package app
