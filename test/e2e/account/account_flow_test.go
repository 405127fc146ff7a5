package account_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridianhq/accounts/pkg/accountsdk"
)

func TestFullRegistrationFlow(t *testing.T) {
	client, mailer := setupAccountService(t)
	ctx := context.Background()

	// Register: the account exists but can't log in yet.
	msg, err := client.Register(ctx, accountsdk.RegisterRequest{
		FirstName: testFirstName,
		LastName:  testLastName,
		Email:     testEmail,
		Password:  testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, "Account Created", msg.Title)
	require.Equal(t, 1, mailer.count())
	require.Equal(t, testEmail, mailer.lastMail(t).To)

	_, err = client.Login(ctx, accountsdk.LoginRequest{
		Username: testEmail,
		Password: testPassword,
	})
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeEmailNotConfirmed)

	// Confirm via the emailed token, then login succeeds.
	token := mailer.lastToken(t)
	msg, err = client.ConfirmEmail(ctx, accountsdk.ConfirmEmailRequest{
		Email: testEmail,
		Token: token,
	})
	require.NoError(t, err)
	require.Equal(t, "Email Confirmed", msg.Title)

	user, err := client.Login(ctx, accountsdk.LoginRequest{
		Username: testEmail,
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, testFirstName, user.FirstName)
	require.Equal(t, testLastName, user.LastName)
	require.NotEmpty(t, user.JWT)

	// The confirmation link is spent after redemption.
	_, err = client.ConfirmEmail(ctx, accountsdk.ConfirmEmailRequest{
		Email: testEmail,
		Token: token,
	})
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeAlreadyConfirmed)
}

func TestDuplicateRegistration(t *testing.T) {
	client, mailer := setupAccountService(t)
	ctx := context.Background()
	registerAndConfirm(t, client, mailer, testEmail)

	_, err := client.Register(ctx, accountsdk.RegisterRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "JANE@Example.com", // same address, different case
		Password:  "Different999",
	})
	requireAPIError(t, err, http.StatusConflict, accountsdk.ErrorCodeAlreadyRegistered)
}

func TestResendConfirmationFlow(t *testing.T) {
	client, mailer := setupAccountService(t)
	ctx := context.Background()

	_, err := client.Register(ctx, accountsdk.RegisterRequest{
		FirstName: testFirstName,
		LastName:  testLastName,
		Email:     testEmail,
		Password:  testPassword,
	})
	require.NoError(t, err)
	firstToken := mailer.lastToken(t)

	msg, err := client.ResendConfirmationLink(ctx, testEmail)
	require.NoError(t, err)
	require.Equal(t, "Confirmation Link Sent", msg.Title)
	require.Equal(t, 2, mailer.count())

	// The original link still works; resending does not rotate the stamp.
	_, err = client.ConfirmEmail(ctx, accountsdk.ConfirmEmailRequest{
		Email: testEmail,
		Token: firstToken,
	})
	require.NoError(t, err)

	// Resend after confirmation is refused.
	_, err = client.ResendConfirmationLink(ctx, testEmail)
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeAlreadyConfirmed)
}

func TestPasswordResetFlow(t *testing.T) {
	client, mailer := setupAccountService(t)
	ctx := context.Background()
	registerAndConfirm(t, client, mailer, testEmail)

	msg, err := client.ForgotUsernameOrPassword(ctx, testEmail)
	require.NoError(t, err)
	require.Equal(t, "Reset Link Sent", msg.Title)

	// The reset mail restates the username.
	require.Contains(t, mailer.lastMail(t).Body, testEmail)

	const newPassword = "Changed456!"
	resetToken := mailer.lastToken(t)
	msg, err = client.ResetPassword(ctx, accountsdk.ResetPasswordRequest{
		Email:       testEmail,
		Token:       resetToken,
		NewPassword: newPassword,
	})
	require.NoError(t, err)
	require.Equal(t, "Password Reset", msg.Title)

	// Old password dead, new one live.
	_, err = client.Login(ctx, accountsdk.LoginRequest{
		Username: testEmail,
		Password: testPassword,
	})
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidCredentials)

	user, err := client.Login(ctx, accountsdk.LoginRequest{
		Username: testEmail,
		Password: newPassword,
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.JWT)

	// The reset token is single use.
	_, err = client.ResetPassword(ctx, accountsdk.ResetPasswordRequest{
		Email:       testEmail,
		Token:       resetToken,
		NewPassword: "Another789!",
	})
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeInvalidToken)
}

func TestForgotPasswordRequiresConfirmedEmail(t *testing.T) {
	client, _ := setupAccountService(t)
	ctx := context.Background()

	_, err := client.Register(ctx, accountsdk.RegisterRequest{
		FirstName: testFirstName,
		LastName:  testLastName,
		Email:     testEmail,
		Password:  testPassword,
	})
	require.NoError(t, err)

	_, err = client.ForgotUsernameOrPassword(ctx, testEmail)
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeEmailNotConfirmed)
}

func TestTokenRefreshFlow(t *testing.T) {
	client, mailer := setupAccountService(t)
	ctx := context.Background()
	registerAndConfirm(t, client, mailer, testEmail)

	user, err := client.Login(ctx, accountsdk.LoginRequest{
		Username: testEmail,
		Password: testPassword,
	})
	require.NoError(t, err)

	refreshed, err := client.RefreshUserToken(ctx, user.JWT)
	require.NoError(t, err)
	require.Equal(t, testFirstName, refreshed.FirstName)
	require.NotEmpty(t, refreshed.JWT)

	// A garbage token is rejected before reaching the handler.
	_, err = client.RefreshUserToken(ctx, "not-a-session-token")
	var apiErr *accountsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCrossAccountTokenRejected(t *testing.T) {
	client, mailer := setupAccountService(t)
	ctx := context.Background()

	registerAndConfirm(t, client, mailer, "alice@example.com")
	registerAndConfirm(t, client, mailer, "bob@example.com")

	// Mint a reset token for bob, try to redeem it against alice.
	_, err := client.ForgotUsernameOrPassword(ctx, "bob@example.com")
	require.NoError(t, err)
	bobToken := mailer.lastToken(t)

	_, err = client.ResetPassword(ctx, accountsdk.ResetPasswordRequest{
		Email:       "alice@example.com",
		Token:       bobToken,
		NewPassword: "Hijacked123",
	})
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeInvalidToken)

	// Bob can still use his own token.
	_, err = client.ResetPassword(ctx, accountsdk.ResetPasswordRequest{
		Email:       "bob@example.com",
		Token:       bobToken,
		NewPassword: "BobsNew456",
	})
	require.NoError(t, err)
}

func TestMailFailureKeepsAccount(t *testing.T) {
	client, mailer := setupAccountService(t)
	ctx := context.Background()

	mailer.failNext = true
	_, err := client.Register(ctx, accountsdk.RegisterRequest{
		FirstName: testFirstName,
		LastName:  testLastName,
		Email:     testEmail,
		Password:  testPassword,
	})
	requireAPIError(t, err, http.StatusInternalServerError, accountsdk.ErrorCodeEmailDelivery)

	// The account was created; a resend delivers the link and the flow
	// completes normally.
	msg, err := client.ResendConfirmationLink(ctx, testEmail)
	require.NoError(t, err)
	require.Equal(t, "Confirmation Link Sent", msg.Title)

	_, err = client.ConfirmEmail(ctx, accountsdk.ConfirmEmailRequest{
		Email: testEmail,
		Token: mailer.lastToken(t),
	})
	require.NoError(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	client, _ := setupAccountService(t)
	ctx := context.Background()

	health, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)

	health, err = client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}
