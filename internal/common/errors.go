// Package common defines shared constants and sentinel errors used across
// client and server layers of Biscotto. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrorDuplicateEmail = errors.New("duplicate email")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")
	ErrorUpstream     = errors.New("upstream failure")

	// Auth flow errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorInvalidCode        = errors.New("invalid code")
	ErrorCodeExpired        = errors.New("code expired")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
