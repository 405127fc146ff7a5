package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/meridianhq/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "accounts-service"

func newHS256(t *testing.T) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256([]byte("super-secret-session-key"), testIssuer)
	require.NoError(t, err)
	return h
}

func sessionClaims(ttl time.Duration) jwtx.Claims {
	return jwtx.NewSessionClaims(
		"user-1",
		"a@x.com", "a@x.com", "Ada", "Lovelace",
		testIssuer,
		ttl,
		time.Now().UTC(),
	)
}

func TestNewHS256(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewHS256(nil, testIssuer)
	require.Error(t, err)
}

func TestHS256SignVerify(t *testing.T) {
	t.Parallel()
	h := newHS256(t)

	t.Run("round trips claims", func(t *testing.T) {
		raw, err := h.Sign(sessionClaims(time.Hour))
		require.NoError(t, err)

		claims, err := h.Verify(raw)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.Subject)
		require.Equal(t, "a@x.com", claims.Email)
		require.Equal(t, testIssuer, claims.Issuer)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		raw, err := h.Sign(sessionClaims(-time.Minute))
		require.NoError(t, err)

		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("rejects wrong key", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte("a-different-key"), testIssuer)
		require.NoError(t, err)

		raw, err := h.Sign(sessionClaims(time.Hour))
		require.NoError(t, err)

		_, err = other.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		foreign, err := jwtx.NewHS256([]byte("super-secret-session-key"), "other-service")
		require.NoError(t, err)

		raw, err := h.Sign(sessionClaims(time.Hour))
		require.NoError(t, err)

		_, err = foreign.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := h.Verify("definitely-not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		raw, err := h.Sign(sessionClaims(time.Hour))
		require.NoError(t, err)

		parts := strings.Split(raw, ".")
		require.Len(t, parts, 3)
		parts[1] = parts[1][:len(parts[1])-2] + "xx"

		_, err = h.Verify(strings.Join(parts, "."))
		require.Error(t, err)
	})
}
