package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/frahmantamala/online-school/pkg/metrics"
)

// SessionService issues and validates whitelisted session tokens.
type SessionService struct {
	sessions SessionRepository
	signer   TokenSigner
	now      func() time.Time
	logger   *slog.Logger
}

type SessionOption func(*SessionService)

func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithSessionLogger(lg *slog.Logger) SessionOption {
	return func(s *SessionService) {
		if lg != nil {
			s.logger = lg
		}
	}
}

func NewSessionService(sessions SessionRepository, signer TokenSigner, opts ...SessionOption) *SessionService {
	s := &SessionService{
		sessions: sessions,
		signer:   signer,
		now:      time.Now,
		logger:   logger.LoggerWrapper(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns the account's current session token when its signature is
// still valid, otherwise prunes it and stores a freshly minted one. The
// caller is responsible for the ban check.
func (s *SessionService) Issue(ctx context.Context, acc *Account) (string, error) {
	existing, err := s.sessions.FindLatestByAccount(ctx, acc.ID)
	if err != nil {
		return "", fmt.Errorf("find session: %w", err)
	}

	if existing != nil {
		claims, perr := s.signer.Parse(existing.Token)
		if perr == nil && claims.AccountID == acc.ID && claims.RoleID == acc.RoleID {
			metrics.SessionIssued("reused")
			return existing.Token, nil
		}

		s.logger.DebugContext(ctx, "pruning stale session", "account_id", acc.ID, "reason", staleReason(perr))
		if err := s.sessions.DeleteByToken(ctx, existing.Token); err != nil {
			return "", fmt.Errorf("delete stale session: %w", err)
		}
	}

	token, err := s.signer.Sign(acc.ID, acc.RoleID)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Create(ctx, &Session{
		Token:     token,
		AccountID: acc.ID,
		CreatedAt: s.now(),
	}); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	metrics.SessionIssued("minted")
	return token, nil
}

// Validate accepts a token only while its session row exists and its
// signature verifies. A row whose token no longer verifies is removed.
func (s *SessionService) Validate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		metrics.SessionValidated("missing")
		return Principal{}, ErrUnauthorized
	}

	sess, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		return Principal{}, fmt.Errorf("find session: %w", err)
	}
	if sess == nil {
		metrics.SessionValidated("unknown")
		return Principal{}, ErrUnauthorized
	}

	claims, err := s.signer.Parse(token)
	if err == nil && claims.AccountID != sess.AccountID {
		err = ErrInvalidToken
	}
	if err != nil {
		if derr := s.sessions.DeleteByToken(ctx, token); derr != nil {
			return Principal{}, fmt.Errorf("delete expired session: %w", derr)
		}
		s.logger.InfoContext(ctx, "session pruned on validation", "account_id", sess.AccountID, "reason", staleReason(err))
		metrics.SessionValidated("expired")
		return Principal{}, ErrTokenExpired
	}

	metrics.SessionValidated("ok")
	return Principal{AccountID: claims.AccountID, RoleID: claims.RoleID}, nil
}

// Revoke removes a single session. Unknown tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func staleReason(err error) string {
	switch {
	case err == nil:
		return "role changed"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	default:
		return "invalid signature"
	}
}
