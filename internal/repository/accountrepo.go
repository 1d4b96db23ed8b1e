// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/MarcusLeong7/vttp-project/internal/model"
)

// AccountLookup is the read side consumed by the authentication gate and the
// login flow. Implementations return errs.ErrNotFound for a miss and
// errs.ErrStoreUnavailable when the backend cannot be reached in time.
type AccountLookup interface {
	// FindByEmail loads an account by email.
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
}

// AccountStore is the authoritative store for account records.
type AccountStore interface {
	AccountLookup
	// Save inserts a new account. Returns errs.ErrAlreadyExists on duplicate email.
	Save(ctx context.Context, a *model.Account) error
	// ExistsByEmail reports whether an account with this email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateCalendarTokens replaces the linked calendar credentials.
	UpdateCalendarTokens(ctx context.Context, email string, tokens model.CalendarTokens) error
}

// AccountMirror is the secondary key-value replica. It is written on
// registration and read only when the authoritative lookup misses.
type AccountMirror interface {
	AccountLookup
	// Save stores or replaces the mirrored account record.
	Save(ctx context.Context, a *model.Account) error
}
