package http

import (
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/httpx"
)

type ResetPasswordHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Reset Password Endpoint
//	@Description	Redeem the reset token from the email and set a new password.
//	@Description	The token is single use; redeeming it retires all outstanding links.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetPasswordRequest		true	"Email, token and new password"
//	@Success		200		{object}	accountsdk.MessageResponse	"title, message"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/api/account/reset-password [put].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.AccountService.ResetPassword(ctx, req.Email, req.Token, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Title:   "Password Reset",
		Message: "Your password has been changed. You can now log in with the new password.",
	})
}
