// Package business registers new businesses on the platform.
//
// Registration is the only place a tenant schema is born: the tenant row
// and the isolated schema (with its employees table) are provisioned
// together, the routing slug is normalized, the owner receives an
// employee record inside the fresh schema, and a subscription starts on
// the chosen plan.
package business
