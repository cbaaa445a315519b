package ban

import (
	"context"
	"errors"
	"time"

	banDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/ban"
)

type Ban struct {
	AccountID int64
	Reason    string
	CreatedBy string
	CreatedAt time.Time
}

func (b *Ban) ToDataModel() *banDatamodel.Ban {
	return &banDatamodel.Ban{
		AccountID: b.AccountID,
		Reason:    b.Reason,
		CreatedBy: b.CreatedBy,
		CreatedAt: b.CreatedAt,
	}
}

func FromDataModel(dm *banDatamodel.Ban) *Ban {
	if dm == nil {
		return nil
	}
	return &Ban{
		AccountID: dm.AccountID,
		Reason:    dm.Reason,
		CreatedBy: dm.CreatedBy,
		CreatedAt: dm.CreatedAt,
	}
}

type Status string

const (
	StatusBanned        Status = "banned"
	StatusAlreadyBanned Status = "already_banned"
	StatusSelfBan       Status = "self_ban"
	StatusUnbanned      Status = "unbanned"
	StatusWasNotBanned  Status = "was_not_banned"
)

// Result is the outcome of a ban or unban request. Only StatusBanned and
// StatusUnbanned change state.
type Result struct {
	Status          Status
	Reason          string
	RevokedSessions int64
}

type RepositoryAPI interface {
	// GetByAccountID returns nil, nil when the account is not banned.
	GetByAccountID(ctx context.Context, accountID int64) (*Ban, error)
	Create(ctx context.Context, b *Ban) error
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, accountID int64) (bool, error)
}

// SessionRevoker drops every session of an account.
type SessionRevoker interface {
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
}

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrReasonRequired  = errors.New("ban reason is required")
)

const (
	MessageSelfBan       = "you cannot ban yourself"
	MessageAlreadyBanned = "user is already banned"
	MessageWasNotBanned  = "user was not banned"
)
