// Package slug normalizes business names into URL-safe tenant routing keys.
package slug
