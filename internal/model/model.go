// Package model defines domain entities used by services and repositories.
package model

import "time"

// Tokens collects the issued access token (no refresh token in this design).
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry (for diagnostics)
}

// CalendarTokens holds linked third-party calendar credentials. The values are
// opaque to the authentication core; the calendar integration owns their meaning.
type CalendarTokens struct {
	AccessToken  *string
	RefreshToken *string
	Expiry       *time.Time
}

// Account represents a user record. The password is never stored in plaintext.
type Account struct {
	Email        string // PK, unique, case-sensitive as stored
	PasswordHash string // bcrypt digest, salt embedded
	Premium      bool
	Calendar     CalendarTokens
	CreatedAt    time.Time
}

// Principal is the request-scoped identity attached after a token has been
// verified and its subject resolved. It lives only for the current request.
type Principal struct {
	Email   string
	Premium bool
}
