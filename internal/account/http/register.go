package http

import (
	"errors"
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/httpx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new account. The email address doubles as the username
//	@Description	and a confirmation link is emailed before login is allowed.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest				true	"Registration details"
//	@Success		201		{object}	accountsdk.MessageResponse	"title, message"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/api/account/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.AccountService.Register(ctx, service.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil && !errors.Is(err, service.ErrEmailDelivery) {
		writeServiceError(w, r, err)
		return
	}

	// The account exists even when the confirmation mail bounced; tell the
	// user which situation they are in.
	if errors.Is(err, service.ErrEmailDelivery) {
		accountsdk.ErrEmailDelivery.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.MessageResponse{
		Title:   "Account Created",
		Message: "Your account has been created. Please confirm your email address to log in.",
	})
}
