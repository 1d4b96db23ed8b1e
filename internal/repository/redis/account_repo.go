// Package redis contains the key-value mirror of the account store. Records
// live in a single Redis hash keyed by email, matching the layout the
// migration-era deployment used.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/MarcusLeong7/vttp-project/internal/errs"
	"github.com/MarcusLeong7/vttp-project/internal/model"
)

// hashKey is the Redis hash holding all mirrored accounts, field = email.
const hashKey = "USER"

// record is the wire form of a mirrored account.
type record struct {
	Email              string     `json:"email"`
	PasswordHash       string     `json:"password"`
	Premium            bool       `json:"premium"`
	GoogleAccessToken  *string    `json:"google_access_token,omitempty"`
	GoogleRefreshToken *string    `json:"google_refresh_token,omitempty"`
	GoogleTokenExpiry  *time.Time `json:"google_token_expiry,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// AccountRepo implements AccountMirror over a Redis client.
type AccountRepo struct {
	client *redis.Client
}

// NewFromURL creates a repository from a redis:// URL. Connectivity is not
// checked here; a down Redis degrades lookups, it does not block startup.
func NewFromURL(url string) (*AccountRepo, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &AccountRepo{client: redis.NewClient(opts)}, nil
}

// NewWithClient wraps an existing client (tests).
func NewWithClient(client *redis.Client) *AccountRepo {
	return &AccountRepo{client: client}
}

// FindByEmail loads a mirrored account. A corrupt or partially populated
// entry is treated as a miss so the caller never sees a half-filled record;
// the entry is left in place, the read path never writes to the mirror.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	data, err := r.client.HGet(ctx, hashKey, email).Result()
	if err == redis.Nil {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}

	var rec record
	if err := json.Unmarshal([]byte(data), &rec); err != nil || rec.Email == "" || rec.PasswordHash == "" {
		return nil, errs.ErrNotFound
	}

	return &model.Account{
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Premium:      rec.Premium,
		Calendar: model.CalendarTokens{
			AccessToken:  rec.GoogleAccessToken,
			RefreshToken: rec.GoogleRefreshToken,
			Expiry:       rec.GoogleTokenExpiry,
		},
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Save stores or replaces the mirrored account record.
func (r *AccountRepo) Save(ctx context.Context, a *model.Account) error {
	rec := record{
		Email:              a.Email,
		PasswordHash:       a.PasswordHash,
		Premium:            a.Premium,
		GoogleAccessToken:  a.Calendar.AccessToken,
		GoogleRefreshToken: a.Calendar.RefreshToken,
		GoogleTokenExpiry:  a.Calendar.Expiry,
		CreatedAt:          a.CreatedAt,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	if err := r.client.HSet(ctx, hashKey, a.Email, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	return nil
}

// Ping checks Redis connectivity (health endpoint).
func (r *AccountRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *AccountRepo) Close() error { return r.client.Close() }
