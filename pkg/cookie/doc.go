// Package cookie manages HTTP cookies with HMAC signing and secret
// rotation support.
package cookie
