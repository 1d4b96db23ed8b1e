package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MarcusLeong7/vttp-project/internal/errs"
	"github.com/MarcusLeong7/vttp-project/internal/model"
)

// AccountRepo implements the authoritative AccountStore using PostgreSQL.
type AccountRepo struct{ db *DB }

// NewAccountRepo constructs an account repository.
func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

// Save inserts a new account row.
func (r *AccountRepo) Save(ctx context.Context, a *model.Account) error {
	const q = `
INSERT INTO users (email, password_hash, is_premium, google_access_token, google_refresh_token, google_token_expiry)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q,
		a.Email, a.PasswordHash, a.Premium,
		a.Calendar.AccessToken, a.Calendar.RefreshToken, a.Calendar.Expiry)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// FindByEmail selects an account by email.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	const q = `
SELECT email, password_hash, is_premium, google_access_token, google_refresh_token, google_token_expiry, created_at
FROM users WHERE email=$1`
	row := r.db.Pool.QueryRow(ctx, q, email)
	var a model.Account
	err := row.Scan(&a.Email, &a.PasswordHash, &a.Premium,
		&a.Calendar.AccessToken, &a.Calendar.RefreshToken, &a.Calendar.Expiry, &a.CreatedAt)
	switch {
	case err == nil:
		return &a, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, errs.ErrNotFound
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
}

// ExistsByEmail reports whether an account with this email exists.
func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE email=$1`
	var count int
	if err := r.db.Pool.QueryRow(ctx, q, email).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

// UpdateCalendarTokens replaces the linked calendar credentials for an account.
func (r *AccountRepo) UpdateCalendarTokens(ctx context.Context, email string, tokens model.CalendarTokens) error {
	const q = `
UPDATE users
SET google_access_token = $1, google_refresh_token = $2, google_token_expiry = $3
WHERE email = $4`
	tag, err := r.db.Pool.Exec(ctx, q, tokens.AccessToken, tokens.RefreshToken, tokens.Expiry, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
