package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/meridianhq/accounts/internal/account/domain"
	"github.com/meridianhq/accounts/internal/account/store"
	"github.com/meridianhq/accounts/pkg/idx"
)

// newTestStore spins up a disposable postgres container. Requires a local
// Docker daemon, so the whole file is skipped under -short.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed store tests in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("accounts"),
		tcpostgres.WithUsername("accounts"),
		tcpostgres.WithPassword("accounts"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store) domain.User {
	t.Helper()

	u := domain.User{
		ID:            idx.New().String(),
		Username:      "jane@example.com",
		Email:         "jane@example.com",
		FirstName:     "Jane",
		LastName:      "Doe",
		PasswordHash:  "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		SecurityStamp: "stamp-1",
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)

	t.Run("lookups", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.False(t, got.EmailConfirmed)
		require.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

		got, err = s.Users().GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		got, err = s.Users().GetUserByUsername(ctx, u.Username)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("duplicate email maps to ErrAlreadyExists", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("stamp guarded updates", func(t *testing.T) {
		err := s.Users().ConfirmEmail(ctx, u.ID, u.SecurityStamp, "stamp-2")
		require.NoError(t, err)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.EmailConfirmed)
		require.Equal(t, "stamp-2", got.SecurityStamp)

		// Replay with the consumed stamp conflicts.
		err = s.Users().ConfirmEmail(ctx, u.ID, u.SecurityStamp, "stamp-3")
		require.ErrorIs(t, err, store.ErrConflict)

		err = s.Users().UpdatePassword(ctx, u.ID, "stamp-2", "new-hash", "stamp-3")
		require.NoError(t, err)

		err = s.Users().UpdatePassword(ctx, idx.New().String(), "stamp-3", "hash", "stamp-4")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
