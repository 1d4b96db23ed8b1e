// Package token mints and verifies the signed bearer tokens that carry
// session trust between login and subsequent requests.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MarcusLeong7/vttp-project/internal/errs"
)

// Manager issues and verifies HS256 JWTs bound to a subject email. The
// signing secret and token lifetime are fixed at construction; there is no
// runtime rotation.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager constructs a Manager. The secret must be non-empty; the caller
// is expected to have failed startup otherwise.
func NewManager(secret []byte, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{secret: secret, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Issue creates a signed token asserting subject until now+ttl.
func (m *Manager) Issue(subject string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	return signed, exp, err
}

// ExtractSubject parses and verifies tokenString and returns the bound
// subject. It returns errs.ErrTokenExpired for a well-signed token past its
// expiry and errs.ErrTokenMalformed for anything else that fails parsing or
// signature verification, including tokens signed with a different method.
func (m *Manager) ExtractSubject(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", errs.ErrTokenExpired
	case err != nil, parsed == nil, !parsed.Valid:
		return "", errs.ErrTokenMalformed
	}
	if claims.Subject == "" {
		return "", errs.ErrTokenMalformed
	}
	return claims.Subject, nil
}

// Valid reports whether tokenString verifies, is unexpired, and is bound to
// expectedSubject. Expiry is strict: a token is invalid at its exact expiry
// instant.
func (m *Manager) Valid(tokenString, expectedSubject string) bool {
	sub, err := m.ExtractSubject(tokenString)
	return err == nil && sub == expectedSubject
}

func (m *Manager) keyFunc(t *jwt.Token) (any, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	return m.secret, nil
}
