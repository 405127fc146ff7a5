package http

import (
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/httpx"
)

type ResendConfirmationHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Resend Email Confirmation Endpoint
//	@Description	Send a fresh confirmation email for an unconfirmed account.
//	@Description	Earlier links stay valid until one of them is redeemed.
//	@Tags			Account
//	@Produce		json
//	@Param			email	path		string						true	"Registered email address"
//	@Success		200		{object}	accountsdk.MessageResponse	"title, message"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/api/account/resend-email-confirmation-link/{email} [post].
func (h *ResendConfirmationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := r.PathValue("email")
	if email == "" {
		accountsdk.NewAPIError(http.StatusBadRequest,
			accountsdk.ErrorCodeInvalidRequest, "email is required").WriteError(w)
		return
	}

	if err := h.AccountService.ResendConfirmation(ctx, email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Title:   "Confirmation Link Sent",
		Message: "A new confirmation link has been sent to your email address.",
	})
}
