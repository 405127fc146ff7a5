package http

import (
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/httpx"
)

type RefreshUserTokenHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Refresh User Token Endpoint
//	@Description	Re-issue a session token for the authenticated user. The client
//	@Description	calls this on app load to keep the session alive.
//	@Tags			Account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	accountsdk.UserResponse		"firstName, lastName, jwt"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/api/account/refresh-user-token [get].
func (h *RefreshUserTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		accountsdk.NewAPIError(http.StatusUnauthorized,
			accountsdk.ErrorCodeInvalidToken, "Missing authentication").WriteError(w)
		return
	}

	user, token, err := h.AccountService.RefreshUser(ctx, userID)
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
