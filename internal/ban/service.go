package ban

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/online-school/internal/auth"
	"github.com/frahmantamala/online-school/internal/core/events"
	"github.com/frahmantamala/online-school/pkg/metrics"
)

type ServiceAPI interface {
	Ban(ctx context.Context, targetID int64, reason string, actor auth.Principal) (Result, error)
	Unban(ctx context.Context, targetID int64, actor auth.Principal) (Result, error)
	IsBanned(ctx context.Context, accountID int64) (bool, error)
}

type AccountLookup interface {
	FindByID(ctx context.Context, id int64) (*auth.Account, error)
}

type Service struct {
	repo     RepositoryAPI
	sessions SessionRevoker
	accounts AccountLookup
	events   events.Publisher
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, sessions SessionRevoker, accounts AccountLookup, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		accounts: accounts,
		events:   publisher,
		logger:   logger,
	}
}

// Ban records a ban against targetID and drops all of its sessions. The
// self-ban check runs before any storage access.
func (s *Service) Ban(ctx context.Context, targetID int64, reason string, actor auth.Principal) (Result, error) {
	if targetID == actor.AccountID {
		metrics.BanAction("ban", string(StatusSelfBan))
		return Result{Status: StatusSelfBan}, nil
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Result{}, ErrReasonRequired
	}

	if _, err := s.accounts.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return Result{}, ErrAccountNotFound
		}
		return Result{}, fmt.Errorf("find target account: %w", err)
	}

	existing, err := s.repo.GetByAccountID(ctx, targetID)
	if err != nil {
		return Result{}, fmt.Errorf("find ban: %w", err)
	}
	if existing != nil {
		metrics.BanAction("ban", string(StatusAlreadyBanned))
		return Result{Status: StatusAlreadyBanned, Reason: existing.Reason}, nil
	}

	createdBy, err := s.displayName(ctx, actor.AccountID)
	if err != nil {
		return Result{}, err
	}

	if err := s.repo.Create(ctx, &Ban{
		AccountID: targetID,
		Reason:    reason,
		CreatedBy: createdBy,
	}); err != nil {
		// a concurrent ban may have won the primary key
		if winner, gerr := s.repo.GetByAccountID(ctx, targetID); gerr == nil && winner != nil {
			metrics.BanAction("ban", string(StatusAlreadyBanned))
			return Result{Status: StatusAlreadyBanned, Reason: winner.Reason}, nil
		}
		return Result{}, fmt.Errorf("create ban: %w", err)
	}

	revoked, err := s.sessions.DeleteByAccount(ctx, targetID)
	if err != nil {
		return Result{}, fmt.Errorf("revoke sessions: %w", err)
	}

	s.logger.InfoContext(ctx, "account banned",
		"account_id", targetID,
		"banned_by", actor.AccountID,
		"revoked_sessions", revoked)
	metrics.BanAction("ban", string(StatusBanned))
	s.publish(ctx, events.NewAccountBannedEvent(targetID, reason, createdBy, revoked))

	return Result{Status: StatusBanned, Reason: reason, RevokedSessions: revoked}, nil
}

// Unban removes the ban record. Sessions revoked by the ban stay revoked.
func (s *Service) Unban(ctx context.Context, targetID int64, actor auth.Principal) (Result, error) {
	removed, err := s.repo.Delete(ctx, targetID)
	if err != nil {
		return Result{}, fmt.Errorf("delete ban: %w", err)
	}
	if !removed {
		metrics.BanAction("unban", string(StatusWasNotBanned))
		return Result{Status: StatusWasNotBanned}, nil
	}

	s.logger.InfoContext(ctx, "account unbanned", "account_id", targetID, "unbanned_by", actor.AccountID)
	metrics.BanAction("unban", string(StatusUnbanned))
	s.publish(ctx, events.NewAccountUnbannedEvent(targetID, actor.AccountID))

	return Result{Status: StatusUnbanned}, nil
}

func (s *Service) IsBanned(ctx context.Context, accountID int64) (bool, error) {
	b, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return false, err
	}
	return b != nil, nil
}

func (s *Service) displayName(ctx context.Context, accountID int64) (string, error) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			return fmt.Sprintf("account #%d", accountID), nil
		}
		return "", fmt.Errorf("find acting account: %w", err)
	}
	return acc.DisplayName(), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
