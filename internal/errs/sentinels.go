// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/transport layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication (wrong password or unknown email).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrTokenMalformed indicates a token that cannot be parsed or whose signature does not verify.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenExpired indicates a correctly signed token whose expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrStoreUnavailable indicates a backing store could not be reached within its bound.
	ErrStoreUnavailable = errors.New("store unavailable")
)
