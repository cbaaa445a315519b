package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/frahmantamala/online-school/pkg/metrics"
)

// ServiceAPI is what the HTTP layer needs from authentication.
type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (Principal, error)
}

type SessionManager interface {
	Issue(ctx context.Context, acc *Account) (string, error)
	Validate(ctx context.Context, token string) (Principal, error)
	Revoke(ctx context.Context, token string) error
}

// Service is the main auth service with dependencies
type Service struct {
	verifier *CredentialVerifier
	sessions SessionManager
	bans     BanChecker
	logger   *slog.Logger
}

// NewService creates a new auth service
func NewService(verifier *CredentialVerifier, sessions SessionManager, bans BanChecker, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{
		verifier: verifier,
		sessions: sessions,
		bans:     bans,
		logger:   lg,
	}
}

// Login verifies credentials, refuses banned accounts and hands out a session.
// Unknown identifiers and wrong passwords both surface as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (LoginResult, error) {
	if appErr := dto.Validate(); appErr != nil {
		return LoginResult{}, appErr
	}

	acc, err := s.verifier.Verify(ctx, dto.Identifier, dto.Password)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrPasswordMismatch) {
			s.logger.InfoContext(ctx, "login rejected", "identifier", dto.Identifier, "reason", err.Error())
			metrics.LoginAttempt("invalid_credentials")
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	banned, err := s.bans.IsBanned(ctx, acc.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("check ban: %w", err)
	}
	if banned {
		s.logger.InfoContext(ctx, "login refused for banned account", "account_id", acc.ID)
		metrics.LoginAttempt("banned")
		return LoginResult{AccountID: acc.ID, Banned: true, Message: BannedLoginMessage}, nil
	}

	token, err := s.sessions.Issue(ctx, acc)
	if err != nil {
		return LoginResult{}, err
	}

	metrics.LoginAttempt("success")
	return LoginResult{Token: token, AccountID: acc.ID}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	return s.sessions.Validate(ctx, token)
}
