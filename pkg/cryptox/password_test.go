package cryptox_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meridianhq/accounts/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// A throwaway pepper keeps hashes deterministic within a single run.
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	t.Run("produces a PHC argon2id string", func(t *testing.T) {
		hash, err := cryptox.HashPassword("secret1")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	})

	t.Run("salts each hash", func(t *testing.T) {
		a, err := cryptox.HashPassword("secret1")
		require.NoError(t, err)
		b, err := cryptox.HashPassword("secret1")
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("secret1")
	require.NoError(t, err)

	t.Run("accepts the original password", func(t *testing.T) {
		require.NoError(t, cryptox.VerifyPassword("secret1", hash))
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		err := cryptox.VerifyPassword("secret2", hash)
		require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
	})

	t.Run("rejects a malformed hash", func(t *testing.T) {
		require.Error(t, cryptox.VerifyPassword("secret1", "$argon2id$nope"))
	})

	t.Run("rejects a non-argon2id hash", func(t *testing.T) {
		other := strings.Replace(hash, "argon2id", "argon2i", 1)
		require.Error(t, cryptox.VerifyPassword("secret1", other))
	})
}
