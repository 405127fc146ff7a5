/*
Package accountsdk provides a typed client for the Meridian account service.

# Overview

The SDK wraps the account HTTP API: registration, login, session refresh,
email confirmation and password reset. All methods take a context and return
typed responses or an *APIError describing the failure.

Create a Client and call the operations directly:

	client := accountsdk.NewClient("https://accounts.example.com")

	// Register a new account (sends a confirmation email)
	msg, err := client.Register(ctx, accountsdk.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "secret123",
	})

	// Log in once the email is confirmed
	user, err := client.Login(ctx, accountsdk.LoginRequest{
		Username: "jane@example.com",
		Password: "secret123",
	})
	fmt.Println(user.JWT)

	// Refresh the session token later
	user, err = client.RefreshUserToken(ctx, user.JWT)

# Confirmation and reset flows

Confirmation and reset tokens arrive by email as links pointing at the
frontend; the frontend replays the token and email against this API:

	msg, err := client.ConfirmEmail(ctx, accountsdk.ConfirmEmailRequest{
		Email: "jane@example.com",
		Token: token,
	})

	msg, err = client.ResetPassword(ctx, accountsdk.ResetPasswordRequest{
		Email:       "jane@example.com",
		Token:       token,
		NewPassword: "new-secret",
	})

# Error Handling

Failures decode into *APIError carrying the HTTP status and the server's
error code and description:

	_, err := client.Login(ctx, req)
	var apiErr *accountsdk.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.StatusCode, apiErr.Code)
	}
*/
package accountsdk
