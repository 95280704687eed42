// Package common contains shared constants and sentinel errors used across
// Biscotto components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
