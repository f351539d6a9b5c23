// Package identity is the shared user-identity store. Users are
// addressable by stable integer ids from any tenant context; tenant data
// holds late-bound references, never cross-schema foreign keys.
package identity
