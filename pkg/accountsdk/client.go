package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a typed client for the account service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new account service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account and triggers the confirmation email.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/account/register", req, "", &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns the user's names plus a session token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/account/login", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshUserToken exchanges a still-valid session token for a fresh one.
func (c *Client) RefreshUserToken(ctx context.Context, sessionToken string) (*UserResponse, error) {
	var out UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/account/refresh-user-token", nil, sessionToken, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmEmail redeems an email confirmation token.
func (c *Client) ConfirmEmail(ctx context.Context, req ConfirmEmailRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/account/confirm-email", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendConfirmationLink asks for a fresh confirmation email.
func (c *Client) ResendConfirmationLink(ctx context.Context, email string) (*MessageResponse, error) {
	path := "/api/account/resend-email-confirmation-link/" + url.PathEscape(email)
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, path, nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotUsernameOrPassword asks for a password reset email. The mail also
// restates the username, covering the forgotten-username case.
func (c *Client) ForgotUsernameOrPassword(ctx context.Context, email string) (*MessageResponse, error) {
	path := "/api/account/forgot-username-or-password/" + url.PathEscape(email)
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, path, nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword redeems a reset token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/account/reset-password", req, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks the liveness endpoint.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReadiness checks the readiness endpoint.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, "", &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON performs a request with an optional JSON body and bearer token, and
// decodes the response into target. Non-expected statuses decode into an
// *APIError.
func (c *Client) doJSON(
	ctx context.Context,
	method, path string,
	body any,
	bearer string,
	target any,
	expectedStatus int,
) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorResponse turns an error body into a typed *APIError. Bodies that
// aren't the standard envelope still come back as an APIError with the raw
// text as the description.
func parseErrorResponse(statusCode int, body []byte) error {
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return &APIError{
			StatusCode:  statusCode,
			Code:        envelope.Error,
			Description: envelope.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  statusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("unexpected response (HTTP %d): %s", statusCode, strings.TrimSpace(string(body))),
	}
}
