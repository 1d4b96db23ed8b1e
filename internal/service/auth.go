// Package service contains the application service for authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	pkgcrypto "github.com/MarcusLeong7/vttp-project/internal/crypto"
	"github.com/MarcusLeong7/vttp-project/internal/errs"
	"github.com/MarcusLeong7/vttp-project/internal/model"
	"github.com/MarcusLeong7/vttp-project/internal/repository"
	"github.com/MarcusLeong7/vttp-project/internal/token"
)

// AuthService defines registration and login operations.
type AuthService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, email, password string) error
	// Login verifies credentials and mints an access token.
	Login(ctx context.Context, email, password string) (model.Tokens, error)
}

// AuthServiceImpl implements AuthService over the dual-store layout: writes
// go to the authoritative store and are mirrored best-effort; reads go
// through the fallback lookup.
type AuthServiceImpl struct {
	accounts repository.AccountStore
	mirror   repository.AccountMirror
	lookup   repository.AccountLookup
	tokens   *token.Manager
	log      *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(accounts repository.AccountStore, mirror repository.AccountMirror, lookup repository.AccountLookup, tokens *token.Manager, log *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{accounts: accounts, mirror: mirror, lookup: lookup, tokens: tokens, log: log}
}

// Register creates the account in the authoritative store and mirrors it to
// the key-value store. A mirror failure is logged, never surfaced: the
// relational row alone makes the registration durable.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errors.New("empty email/password")
	}

	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("exists check: %w", err)
	}
	if exists {
		return errs.ErrAlreadyExists
	}

	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	a := &model.Account{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.accounts.Save(ctx, a); err != nil {
		return err
	}
	if err := s.mirror.Save(ctx, a); err != nil {
		s.log.Warn("account mirror write failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// Login authenticates the presented credentials. Unknown email, wrong
// password, and an unreachable store all collapse into errs.ErrUnauthorized
// so the response never reveals which factor failed.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.Tokens, error) {
	a, err := s.lookup.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrStoreUnavailable) {
			s.log.Warn("login lookup degraded", zap.Error(err))
		}
		return model.Tokens{}, errs.ErrUnauthorized
	}
	if !pkgcrypto.VerifyPassword(password, a.PasswordHash) {
		return model.Tokens{}, errs.ErrUnauthorized
	}

	access, exp, err := s.tokens.Issue(a.Email)
	if err != nil {
		return model.Tokens{}, fmt.Errorf("issue token: %w", err)
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, nil
}
