// Package employee manages staff membership records inside a tenant's
// isolated schema.
//
// Every business schema carries its own employees table. Records refer to
// platform users by plain integer id; the user itself stays in shared
// identity storage. The SchemaStore runs unqualified queries over a
// registrar handle, so one implementation serves every tenant through the
// bound search_path.
//
// GetOrCreateOwner backs the owner auto-provisioning path: the business
// owner gets an owner-role record on first contact with their own
// business, and concurrent first requests still produce exactly one row.
package employee
