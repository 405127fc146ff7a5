package http

import (
	"errors"
	"net/http"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/pkg/accountsdk"
	"github.com/meridianhq/accounts/pkg/slogx"
	"github.com/meridianhq/accounts/pkg/vtoken"
)

// writeServiceError maps service errors onto the API error envelope. All
// token failures collapse into the one generic invalid-token response so the
// endpoint can't be used to probe which check rejected a token.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		accountsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrEmailNotConfirmed):
		accountsdk.ErrEmailNotConfirmed.WriteError(w)
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		accountsdk.ErrAlreadyRegistered.WriteError(w)
	case errors.Is(err, service.ErrAlreadyConfirmed):
		accountsdk.ErrAlreadyConfirmed.WriteError(w)
	case errors.Is(err, service.ErrAccountNotFound):
		accountsdk.ErrAccountNotFound.WriteError(w)
	case errors.Is(err, service.ErrEmailDelivery):
		accountsdk.ErrEmailDelivery.WriteError(w)
	case errors.Is(err, vtoken.ErrTokenFormat),
		errors.Is(err, vtoken.ErrSignature),
		errors.Is(err, vtoken.ErrPurposeMismatch),
		errors.Is(err, vtoken.ErrExpired),
		errors.Is(err, vtoken.ErrStampMismatch),
		errors.Is(err, service.ErrSubjectMismatch):
		accountsdk.ErrInvalidToken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		accountsdk.ErrServer.WriteError(w)
	}
}
