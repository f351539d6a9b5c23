// Package directory is the durable tenant directory: the mapping from
// routing keys and hostnames to tenant identities and their isolated
// schemas. It is the leaf dependency of the request pipeline.
package directory
