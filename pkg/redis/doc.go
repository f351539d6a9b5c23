// Package redis provides Redis client setup with retries and health checks.
package redis
