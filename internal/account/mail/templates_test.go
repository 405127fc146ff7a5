package mail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkBuilder(t *testing.T) {
	b := LinkBuilder{
		ClientURL:   "https://app.example.com/",
		ConfirmPath: "/account/confirm-email",
		ResetPath:   "account/reset-password",
	}

	t.Run("confirm link", func(t *testing.T) {
		link := b.ConfirmEmailURL("abc123", "jane@example.com")
		require.Equal(t,
			"https://app.example.com/account/confirm-email?email=jane%40example.com&token=abc123",
			link)
	})

	t.Run("reset link", func(t *testing.T) {
		link := b.ResetPasswordURL("tok", "a+b@example.com")
		require.Equal(t,
			"https://app.example.com/account/reset-password?email=a%2Bb%40example.com&token=tok",
			link)
	})
}

func TestRenderConfirmEmail(t *testing.T) {
	body, err := RenderConfirmEmail("Meridian", "Jane Doe", "https://app.example.com/confirm?token=t")
	require.NoError(t, err)
	require.Contains(t, body, "Hello Jane Doe")
	require.Contains(t, body, "Meridian")
	require.Contains(t, body, `href="https://app.example.com/confirm?token=t"`)
}

func TestRenderResetPassword(t *testing.T) {
	body, err := RenderResetPassword("Meridian", "Jane Doe", "jane@example.com", "https://app.example.com/reset?token=t")
	require.NoError(t, err)
	require.Contains(t, body, "Hello Jane Doe")
	require.Contains(t, body, "<strong>jane@example.com</strong>")
	require.Contains(t, body, `href="https://app.example.com/reset?token=t"`)
}

func TestRenderEscapesUserContent(t *testing.T) {
	body, err := RenderConfirmEmail("Meridian", `<script>alert(1)</script>`, "https://app.example.com")
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
}
