package user

import (
	"time"

	accountDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/account"
)

type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"role_id"`
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func ToDataModel(u *User) *accountDatamodel.Account {
	return &accountDatamodel.Account{
		ID:           u.ID,
		Login:        u.Login,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(a *accountDatamodel.Account) *User {
	return &User{
		ID:           a.ID,
		Login:        a.Login,
		Email:        a.Email,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		PasswordHash: a.PasswordHash,
		RoleID:       a.RoleID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func FromDataModelWithRole(a *accountDatamodel.Account, role string) *User {
	u := FromDataModel(a)
	u.Role = role
	return u
}
