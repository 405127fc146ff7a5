package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridianhq/accounts/internal/account/domain"
	"github.com/meridianhq/accounts/internal/account/store"
	"github.com/meridianhq/accounts/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

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

func TestUsersCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)

	t.Run("by id", func(t *testing.T) {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, u.FirstName, got.FirstName)
		require.False(t, got.EmailConfirmed)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("by email", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("by username", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, u.Username)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUsersConfirmEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)

	t.Run("rotates stamp", func(t *testing.T) {
		err := s.Users().ConfirmEmail(ctx, u.ID, u.SecurityStamp, "stamp-2")
		require.NoError(t, err)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.EmailConfirmed)
		require.Equal(t, "stamp-2", got.SecurityStamp)
	})

	t.Run("stale stamp conflicts", func(t *testing.T) {
		err := s.Users().ConfirmEmail(ctx, u.ID, u.SecurityStamp, "stamp-3")
		require.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := s.Users().ConfirmEmail(ctx, idx.New().String(), "whatever", "stamp-x")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersUpdatePassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)

	err := s.Users().UpdatePassword(ctx, u.ID, u.SecurityStamp, "new-hash", "stamp-2")
	require.NoError(t, err)

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.Equal(t, "stamp-2", got.SecurityStamp)

	// A retry with the consumed stamp must not apply.
	err = s.Users().UpdatePassword(ctx, u.ID, u.SecurityStamp, "other-hash", "stamp-3")
	require.ErrorIs(t, err, store.ErrConflict)
}

func TestWithTx(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		u := domain.User{
			ID:            idx.New().String(),
			Username:      "tx@example.com",
			Email:         "tx@example.com",
			FirstName:     "Trans",
			LastName:      "Action",
			PasswordHash:  "hash",
			SecurityStamp: "stamp-1",
		}
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, u)
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		u := domain.User{
			ID:            idx.New().String(),
			Username:      "rollback@example.com",
			Email:         "rollback@example.com",
			PasswordHash:  "hash",
			SecurityStamp: "stamp-1",
		}
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return err
			}
			return context.Canceled
		})
		require.ErrorIs(t, err, context.Canceled)

		_, err = s.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
