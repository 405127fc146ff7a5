package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/meridianhq/accounts/pkg/httpx"
)

// Error codes shared by the server and the SDK.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeEmailNotConfirmed  = "email_not_confirmed"
	ErrorCodeAlreadyRegistered  = "already_registered"
	ErrorCodeAlreadyConfirmed   = "already_confirmed"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeEmailDelivery      = "email_delivery_failed"
	ErrorCodeServerError        = "server_error"
)

// APIError represents an error response from the account service. It
// implements the error interface and is used both by the server (to write
// HTTP responses) and by the SDK client (to represent failures).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// Predefined errors the server returns. The token error deliberately covers
// every token failure mode with one message so responses don't reveal which
// check rejected it.
var (
	ErrInvalidCredentials = NewAPIError(http.StatusUnauthorized,
		ErrorCodeInvalidCredentials, "Invalid username or password")

	ErrInvalidToken = NewAPIError(http.StatusBadRequest,
		ErrorCodeInvalidToken, "Invalid or expired token. Please request a new one")

	ErrEmailNotConfirmed = NewAPIError(http.StatusUnauthorized,
		ErrorCodeEmailNotConfirmed, "Please confirm your email address first")

	ErrAlreadyRegistered = NewAPIError(http.StatusConflict,
		ErrorCodeAlreadyRegistered, "An account with this email address already exists")

	ErrAlreadyConfirmed = NewAPIError(http.StatusBadRequest,
		ErrorCodeAlreadyConfirmed, "This email address has already been confirmed")

	ErrAccountNotFound = NewAPIError(http.StatusNotFound,
		ErrorCodeNotFound, "No account is registered with this email address")

	ErrEmailDelivery = NewAPIError(http.StatusInternalServerError,
		ErrorCodeEmailDelivery, "Failed to send email. Please try again later")

	ErrServer = NewAPIError(http.StatusInternalServerError,
		ErrorCodeServerError, "An internal error occurred")
)
