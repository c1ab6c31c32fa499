// Package auth verifies bearer tokens issued by the external identity
// provider. Tokens are HS256-signed JWTs; issuing them is not this
// service's concern.
package auth
