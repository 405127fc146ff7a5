package vtoken_test

import (
	"encoding/base64"
	"testing"

	"github.com/meridianhq/accounts/pkg/vtoken"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	t.Run("round trips binary data", func(t *testing.T) {
		raw := []byte{0x00, 0xff, 0x10, 0x7f, 0xfe}
		decoded, err := vtoken.Decode(vtoken.Encode(raw))
		require.NoError(t, err)
		require.Equal(t, raw, decoded)
	})

	t.Run("output is query-string safe", func(t *testing.T) {
		encoded := vtoken.Encode([]byte{0xfb, 0xff, 0xbf, 0x3e, 0x3f})
		require.NotContains(t, encoded, "+")
		require.NotContains(t, encoded, "/")
		require.NotContains(t, encoded, "=")
	})

	t.Run("tolerates padded input", func(t *testing.T) {
		raw := []byte("payload")
		padded := base64.URLEncoding.EncodeToString(raw)
		require.Contains(t, padded, "=")

		decoded, err := vtoken.Decode(padded)
		require.NoError(t, err)
		require.Equal(t, raw, decoded)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := vtoken.Decode("   ")
		require.ErrorIs(t, err, vtoken.ErrTokenFormat)
	})

	t.Run("rejects non-base64url input", func(t *testing.T) {
		_, err := vtoken.Decode("not!valid*base64")
		require.ErrorIs(t, err, vtoken.ErrTokenFormat)
	})

	t.Run("rejects truncated input", func(t *testing.T) {
		encoded := vtoken.Encode([]byte("some raw token bytes"))
		_, err := vtoken.Decode(encoded[:len(encoded)-1] + "\x00")
		require.ErrorIs(t, err, vtoken.ErrTokenFormat)
	})
}
