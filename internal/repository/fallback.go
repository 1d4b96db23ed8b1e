package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/MarcusLeong7/vttp-project/internal/errs"
	"github.com/MarcusLeong7/vttp-project/internal/model"
)

// FallbackLookup reads from the authoritative store first and consults the
// secondary only when the primary has no record. It never writes to either
// store; a record found only in the secondary is returned as-is, without
// read-repair.
type FallbackLookup struct {
	primary   AccountLookup
	secondary AccountLookup
	log       *zap.Logger
}

// NewFallbackLookup composes the dual-store read path.
func NewFallbackLookup(primary, secondary AccountLookup, log *zap.Logger) *FallbackLookup {
	return &FallbackLookup{primary: primary, secondary: secondary, log: log}
}

// FindByEmail resolves an account, preferring the primary record when both
// stores hold one. A store failure counts as a miss for that store; if both
// stores failed (rather than missed) the error is errs.ErrStoreUnavailable so
// callers can tell degraded from absent, though both deny trust.
func (f *FallbackLookup) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	a, primaryErr := f.primary.FindByEmail(ctx, email)
	if primaryErr == nil {
		return a, nil
	}
	if !errors.Is(primaryErr, errs.ErrNotFound) {
		f.log.Warn("primary account lookup failed", zap.Error(primaryErr))
	}

	a, secondaryErr := f.secondary.FindByEmail(ctx, email)
	if secondaryErr == nil {
		return a, nil
	}
	if !errors.Is(secondaryErr, errs.ErrNotFound) {
		f.log.Warn("secondary account lookup failed", zap.Error(secondaryErr))
	}

	if !errors.Is(primaryErr, errs.ErrNotFound) && !errors.Is(secondaryErr, errs.ErrNotFound) {
		return nil, errs.ErrStoreUnavailable
	}
	return nil, errs.ErrNotFound
}
