package vtoken_test

import (
	"testing"
	"time"

	"github.com/meridianhq/accounts/pkg/vtoken"
	"github.com/stretchr/testify/require"
)

const (
	testUserID = "01J9FZZX5H2M4Q8RT0V1WXYZ12"
	testStamp  = "9f2c1f6e-0b0a-4d4c-93a1-2c6a1f0e7d58"
)

func newSigner(t *testing.T) *vtoken.Signer {
	t.Helper()
	s, err := vtoken.NewSigner([]byte("test-verification-secret"))
	require.NoError(t, err)
	return s
}

func TestNewSigner(t *testing.T) {
	t.Parallel()

	_, err := vtoken.NewSigner(nil)
	require.Error(t, err)
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	s := newSigner(t)

	t.Run("valid immediately after issuance", func(t *testing.T) {
		encoded, err := s.Issue(vtoken.PurposeEmailConfirmation, testUserID, testStamp, time.Hour)
		require.NoError(t, err)

		tok, err := s.Parse(encoded, vtoken.PurposeEmailConfirmation)
		require.NoError(t, err)
		require.Equal(t, testUserID, tok.UserID)
		require.Equal(t, testStamp, tok.Stamp)
		require.NoError(t, tok.VerifyStamp(testStamp))
	})

	t.Run("requires identity fields", func(t *testing.T) {
		_, err := s.Issue(vtoken.PurposePasswordReset, "", testStamp, time.Hour)
		require.Error(t, err)
		_, err = s.Issue(vtoken.PurposePasswordReset, testUserID, "", time.Hour)
		require.Error(t, err)
	})

	t.Run("purpose mismatch in both directions", func(t *testing.T) {
		confirm, err := s.Issue(vtoken.PurposeEmailConfirmation, testUserID, testStamp, time.Hour)
		require.NoError(t, err)
		reset, err := s.Issue(vtoken.PurposePasswordReset, testUserID, testStamp, time.Hour)
		require.NoError(t, err)

		_, err = s.Parse(confirm, vtoken.PurposePasswordReset)
		require.ErrorIs(t, err, vtoken.ErrPurposeMismatch)
		_, err = s.Parse(reset, vtoken.PurposeEmailConfirmation)
		require.ErrorIs(t, err, vtoken.ErrPurposeMismatch)
	})

	t.Run("zero ttl is already expired", func(t *testing.T) {
		encoded, err := s.Issue(vtoken.PurposePasswordReset, testUserID, testStamp, 0)
		require.NoError(t, err)

		_, err = s.Parse(encoded, vtoken.PurposePasswordReset)
		require.ErrorIs(t, err, vtoken.ErrExpired)
	})

	t.Run("negative ttl is already expired", func(t *testing.T) {
		encoded, err := s.Issue(vtoken.PurposePasswordReset, testUserID, testStamp, -time.Minute)
		require.NoError(t, err)

		_, err = s.Parse(encoded, vtoken.PurposePasswordReset)
		require.ErrorIs(t, err, vtoken.ErrExpired)
	})

	t.Run("different secret fails signature", func(t *testing.T) {
		encoded, err := s.Issue(vtoken.PurposeEmailConfirmation, testUserID, testStamp, time.Hour)
		require.NoError(t, err)

		other, err := vtoken.NewSigner([]byte("a-different-secret"))
		require.NoError(t, err)

		_, err = other.Parse(encoded, vtoken.PurposeEmailConfirmation)
		require.ErrorIs(t, err, vtoken.ErrSignature)
	})
}

func TestParseRejectsTampering(t *testing.T) {
	t.Parallel()
	s := newSigner(t)

	encoded, err := s.Issue(vtoken.PurposeEmailConfirmation, testUserID, testStamp, time.Hour)
	require.NoError(t, err)

	// Flipping any single byte of the encoded form must never verify. The
	// final character is skipped: its low bits are base64 padding, and a
	// flip there decodes to the identical raw token.
	for i := 0; i < len(encoded)-1; i++ {
		mutated := []byte(encoded)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}

		_, err := s.Parse(string(mutated), vtoken.PurposeEmailConfirmation)
		require.Error(t, err, "tampered byte %d accepted", i)
		require.True(t,
			err == vtoken.ErrSignature || err == vtoken.ErrTokenFormat,
			"tampered byte %d yielded unexpected error %v", i, err)
	}
}

func TestVerifyStamp(t *testing.T) {
	t.Parallel()
	s := newSigner(t)

	encoded, err := s.Issue(vtoken.PurposePasswordReset, testUserID, testStamp, time.Hour)
	require.NoError(t, err)

	tok, err := s.Parse(encoded, vtoken.PurposePasswordReset)
	require.NoError(t, err)

	t.Run("matches the issuance snapshot", func(t *testing.T) {
		require.NoError(t, tok.VerifyStamp(testStamp))
	})

	t.Run("fails after the stamp rotates", func(t *testing.T) {
		err := tok.VerifyStamp("b31b9c1e-4a3e-4f66-8b49-34e15ad40c11")
		require.ErrorIs(t, err, vtoken.ErrStampMismatch)
	})
}
