// Package requestid assigns a correlation id to every HTTP request and
// exposes it through the context and the X-Request-ID response header.
package requestid
