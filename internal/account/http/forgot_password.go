package http

import (
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/httpx"
)

type ForgotPasswordHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Forgot Username Or Password Endpoint
//	@Description	Send a password reset email. The mail restates the username, so
//	@Description	the same flow covers a forgotten username.
//	@Tags			Account
//	@Produce		json
//	@Param			email	path		string						true	"Registered email address"
//	@Success		200		{object}	accountsdk.MessageResponse	"title, message"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/api/account/forgot-username-or-password/{email} [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.PathValue("email")
	if email == "" {
		accountsdk.NewAPIError(http.StatusBadRequest,
			accountsdk.ErrorCodeInvalidRequest, "email is required").WriteError(w)
		return
	}

	if err := h.AccountService.ForgotPassword(ctx, email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Title:   "Reset Link Sent",
		Message: "A password reset link has been sent to your email address.",
	})
}
