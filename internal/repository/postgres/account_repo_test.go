package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/MarcusLeong7/vttp-project/internal/errs"
	"github.com/MarcusLeong7/vttp-project/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

const accountColumns = `email, password_hash, is_premium, google_access_token, google_refresh_token, google_token_expiry, created_at`

func TestAccountRepo_Save_OK_and_Duplicate(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	a := &model.Account{Email: "alice@example.com", PasswordHash: "$2a$10$hash"}

	// OK
	mock.ExpectExec(`INSERT INTO users \(email, password_hash, is_premium, google_access_token, google_refresh_token, google_token_expiry\)`).
		WithArgs(a.Email, a.PasswordHash, a.Premium, a.Calendar.AccessToken, a.Calendar.RefreshToken, a.Calendar.Expiry).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Save(ctx, a))

	// Unique violation
	mock.ExpectExec(`INSERT INTO users \(email, password_hash, is_premium, google_access_token, google_refresh_token, google_token_expiry\)`).
		WithArgs(a.Email, a.PasswordHash, a.Premium, a.Calendar.AccessToken, a.Calendar.RefreshToken, a.Calendar.Expiry).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err := r.Save(ctx, a)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestAccountRepo_FindByEmail(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(`SELECT ` + accountColumns + ` FROM users WHERE email=\$1`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"email", "password_hash", "is_premium", "google_access_token", "google_refresh_token", "google_token_expiry", "created_at"}).
			AddRow("alice@example.com", "$2a$10$hash", true, (*string)(nil), (*string)(nil), (*time.Time)(nil), now))
	a, err := r.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", a.Email)
	require.Equal(t, "$2a$10$hash", a.PasswordHash)
	require.True(t, a.Premium)
	require.Nil(t, a.Calendar.AccessToken)

	mock.ExpectQuery(`SELECT ` + accountColumns + ` FROM users WHERE email=\$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccountRepo_FindByEmail_StoreFailure(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)

	mock.ExpectQuery(`SELECT ` + accountColumns + ` FROM users WHERE email=\$1`).
		WithArgs("alice@example.com").
		WillReturnError(context.DeadlineExceeded)
	_, err := r.FindByEmail(context.Background(), "alice@example.com")
	require.ErrorIs(t, err, errs.ErrStoreUnavailable)
}

func TestAccountRepo_ExistsByEmail(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email=\$1`).
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	ok, err := r.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email=\$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	ok, err = r.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAccountRepo_UpdateCalendarTokens(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()

	access, refresh := "at", "rt"
	expiry := time.Now().Add(time.Hour)
	tokens := model.CalendarTokens{AccessToken: &access, RefreshToken: &refresh, Expiry: &expiry}

	mock.ExpectExec(`UPDATE users SET google_access_token = \$1, google_refresh_token = \$2, google_token_expiry = \$3 WHERE email = \$4`).
		WithArgs(tokens.AccessToken, tokens.RefreshToken, tokens.Expiry, "alice@example.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.UpdateCalendarTokens(ctx, "alice@example.com", tokens))

	mock.ExpectExec(`UPDATE users SET google_access_token = \$1, google_refresh_token = \$2, google_token_expiry = \$3 WHERE email = \$4`).
		WithArgs(tokens.AccessToken, tokens.RefreshToken, tokens.Expiry, "nobody@example.com").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := r.UpdateCalendarTokens(ctx, "nobody@example.com", tokens)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
