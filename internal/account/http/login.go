package http

import (
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/httpx"
)

type LoginHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Login Endpoint
//	@Description	Authenticate with username (the registered email) and password.
//	@Description	Returns the user's names plus a signed session token.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest				true	"Login credentials"
//	@Success		200		{object}	accountsdk.UserResponse		"firstName, lastName, jwt"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/api/account/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, token, err := h.AccountService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.UserResponse{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		JWT:       token,
	})
}
