package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAccountBanned   = "account.banned"
	EventTypeAccountUnbanned = "account.unbanned"
	EventTypeSessionsReaped  = "sessions.reaped"
)

type AccountBannedEvent struct {
	BaseEvent
	AccountID       int64  `json:"account_id"`
	Reason          string `json:"reason"`
	BannedBy        string `json:"banned_by"`
	RevokedSessions int64  `json:"revoked_sessions"`
}

func NewAccountBannedEvent(accountID int64, reason, bannedBy string, revoked int64) *AccountBannedEvent {
	return &AccountBannedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccountBanned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"account_id":       accountID,
				"reason":           reason,
				"banned_by":        bannedBy,
				"revoked_sessions": revoked,
			},
		},
		AccountID:       accountID,
		Reason:          reason,
		BannedBy:        bannedBy,
		RevokedSessions: revoked,
	}
}

type AccountUnbannedEvent struct {
	BaseEvent
	AccountID  int64 `json:"account_id"`
	UnbannedBy int64 `json:"unbanned_by"`
}

func NewAccountUnbannedEvent(accountID, unbannedBy int64) *AccountUnbannedEvent {
	return &AccountUnbannedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccountUnbanned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"account_id":  accountID,
				"unbanned_by": unbannedBy,
			},
		},
		AccountID:  accountID,
		UnbannedBy: unbannedBy,
	}
}

type SessionsReapedEvent struct {
	BaseEvent
	Count  int64     `json:"count"`
	Cutoff time.Time `json:"cutoff"`
}

func NewSessionsReapedEvent(count int64, cutoff time.Time) *SessionsReapedEvent {
	return &SessionsReapedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeSessionsReaped,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"count":  count,
				"cutoff": cutoff,
			},
		},
		Count:  count,
		Cutoff: cutoff,
	}
}
