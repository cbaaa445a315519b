package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/frahmantamala/online-school/internal/core/datamodel/account"
	"github.com/frahmantamala/online-school/internal/core/datamodel/session"
	"github.com/golang-jwt/jwt/v5"
)

// Account is the credential-bearing view of a user account.
type Account struct {
	ID           int64
	Login        string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	RoleID       int64
}

// DisplayName is the human readable name recorded on audit rows.
func (a *Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Login
	}
	return name
}

func AccountFromDataModel(dm *account.Account) *Account {
	if dm == nil {
		return nil
	}
	return &Account{
		ID:           dm.ID,
		Login:        dm.Login,
		Email:        dm.Email,
		FirstName:    dm.FirstName,
		LastName:     dm.LastName,
		PasswordHash: dm.PasswordHash,
		RoleID:       dm.RoleID,
	}
}

// Session is a whitelisted token.
type Session struct {
	Token     string
	AccountID int64
	CreatedAt time.Time
}

func (s *Session) ToDataModel() *session.Session {
	return &session.Session{
		Token:     s.Token,
		AccountID: s.AccountID,
		CreatedAt: s.CreatedAt,
	}
}

func SessionFromDataModel(dm *session.Session) *Session {
	if dm == nil {
		return nil
	}
	return &Session{
		Token:     dm.Token,
		AccountID: dm.AccountID,
		CreatedAt: dm.CreatedAt,
	}
}

type Role struct {
	ID   int64
	Name string
}

type Permission struct {
	ID          int64
	Name        string
	Description string
}

// Principal is the authenticated identity of a request. Only
// SessionService.Validate produces one.
type Principal struct {
	AccountID int64
	RoleID    int64
}

// Claims is the signed session payload.
type Claims struct {
	AccountID int64 `json:"account_id"`
	RoleID    int64 `json:"role_id"`
	jwt.RegisteredClaims
}

type AccountRepository interface {
	// FindByIdentifier matches login or email exactly; ErrAccountNotFound when absent.
	FindByIdentifier(ctx context.Context, identifier string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	// FindByToken and FindLatestByAccount return nil, nil when no row exists.
	FindByToken(ctx context.Context, token string) (*Session, error)
	FindLatestByAccount(ctx context.Context, accountID int64) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type GrantRepository interface {
	// FindPermissionByName and FindRoleByID return nil, nil when no row exists.
	FindPermissionByName(ctx context.Context, name string) (*Permission, error)
	FindRoleByID(ctx context.Context, id int64) (*Role, error)
	HasGrant(ctx context.Context, roleID, permissionID int64) (bool, error)
}

// BanChecker reports whether an account currently holds a ban record.
type BanChecker interface {
	IsBanned(ctx context.Context, accountID int64) (bool, error)
}

type TokenSigner interface {
	Sign(accountID, roleID int64) (string, error)
	Parse(token string) (*Claims, error)
}

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrPasswordMismatch   = errors.New("password mismatch")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnknownPermission  = errors.New("unknown permission")
)

// BannedLoginMessage is returned in place of a token for banned accounts.
const BannedLoginMessage = "you are banned, cannot start a new session"
