package http

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/meridianhq/accounts/pkg/accountsdk"
)

// Request DTOs carry their own validation so handlers stay thin. Field shape
// is checked here at the edge; business rules live in the service layer.

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(3, 15)),
		validation.Field(&r.LastName, validation.Required, validation.Length(3, 15)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
	)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type confirmEmailRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (r confirmEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Token, validation.Required),
	)
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (r resetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 72)),
	)
}

// decodeAndValidate parses a JSON body into dst and runs its validation.
// On failure it writes the error response and reports false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface {
	Validate() error
}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		accountsdk.NewAPIError(http.StatusBadRequest,
			accountsdk.ErrorCodeInvalidRequest, "Invalid JSON body").WriteError(w)
		return false
	}
	if err := dst.Validate(); err != nil {
		accountsdk.NewAPIError(http.StatusBadRequest,
			accountsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return false
	}
	return true
}
