package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/core/common/validation"
)

type SignupDTO struct {
	Login     string `json:"login"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (d *SignupDTO) Normalize() {
	d.Login = strings.TrimSpace(d.Login)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
}

func (d SignupDTO) Validate() *internal.AppError {
	for _, appErr := range []*internal.AppError{
		validation.ValidateLogin(d.Login),
		validation.ValidateEmail(d.Email),
		validation.ValidatePassword(d.Password),
	} {
		if appErr != nil {
			return appErr
		}
	}

	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).MaxLength(100)
	v.Field("last_name", d.LastName).MaxLength(100)
	return v.Validate()
}

// UpdateProfileDTO carries only the fields the caller wants changed.
type UpdateProfileDTO struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  *string `json:"password,omitempty"`
}

func (d UpdateProfileDTO) Validate() *internal.AppError {
	if d.Email != nil {
		if appErr := validation.ValidateEmail(*d.Email); appErr != nil {
			return appErr
		}
	}
	if d.Password != nil {
		if appErr := validation.ValidatePassword(*d.Password); appErr != nil {
			return appErr
		}
	}

	v := validation.NewValidator()
	if d.FirstName != nil {
		v.Field("first_name", *d.FirstName).MaxLength(100)
	}
	if d.LastName != nil {
		v.Field("last_name", *d.LastName).MaxLength(100)
	}
	return v.Validate()
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}
