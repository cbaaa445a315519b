package auth

import (
	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
// Identifier is either the account login or its email.
type LoginDTO struct {
	Identifier string `json:"login"`
	Password   string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("login", d.Identifier).Required().MaxLength(255)
	v.Field("password", d.Password).Required().MaxLength(72)
	return v.Validate()
}

// LoginResult is the outcome of a login attempt that passed credential checks.
type LoginResult struct {
	Token     string
	AccountID int64
	Banned    bool
	Message   string
}

// LoginResponse carries either a token or an informational error; both use 200.
type LoginResponse struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

func (r LoginResult) ToResponse() LoginResponse {
	if r.Banned {
		return LoginResponse{Error: r.Message}
	}
	return LoginResponse{Token: r.Token}
}
