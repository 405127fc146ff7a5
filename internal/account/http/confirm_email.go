package http

import (
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/httpx"
)

type ConfirmEmailHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Confirm Email Endpoint
//	@Description	Redeem the confirmation token from the registration email. On
//	@Description	success the token (and any other outstanding links) is retired.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		confirmEmailRequest			true	"Email and token from the confirmation link"
//	@Success		200		{object}	accountsdk.MessageResponse	"title, message"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/api/account/confirm-email [put].
func (h *ConfirmEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req confirmEmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.AccountService.ConfirmEmail(ctx, req.Email, req.Token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Title:   "Email Confirmed",
		Message: "Your email address is confirmed. You can now log in.",
	})
}
