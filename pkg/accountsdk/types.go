package accountsdk

// RegisterRequest creates a new account. The email doubles as the username.
type RegisterRequest struct {
	// FirstName of the user, shown in email greetings and session claims.
	FirstName string `json:"firstName"`

	// LastName of the user.
	LastName string `json:"lastName"`

	// Email is the address the confirmation link is sent to.
	Email string `json:"email"`

	// Password in plain text; hashed server-side.
	Password string `json:"password"`
}

// LoginRequest authenticates by username (the registered email) and password.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ConfirmEmailRequest redeems an email confirmation token.
type ConfirmEmailRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ResetPasswordRequest redeems a password reset token and sets a new password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UserResponse is returned after login and token refresh. The JWT is the
// session token for subsequent authenticated requests.
type UserResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JWT       string `json:"jwt"`
}

// MessageResponse is the generic success envelope for operations that have
// no payload beyond a human-readable outcome.
type MessageResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope.
// Client code should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_request")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies in /readyz.
type HealthChecks struct {
	Database string `json:"database"`
}
