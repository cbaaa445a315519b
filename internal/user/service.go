package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/auth"
	accountDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/account"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*accountDatamodel.Account, error)
	GetByLoginOrEmail(ctx context.Context, login, email string) (*accountDatamodel.Account, error)
	GetRoleByName(ctx context.Context, name string) (*accountDatamodel.Role, error)
	RoleNames(ctx context.Context) (map[int64]string, error)
	List(ctx context.Context, limit, offset int) ([]*accountDatamodel.Account, error)
	Create(ctx context.Context, account *accountDatamodel.Account) error
	Update(ctx context.Context, account *accountDatamodel.Account) error
	// Delete removes the account together with its sessions, ban and authorships.
	Delete(ctx context.Context, id int64) (bool, error)
}

type SessionRevoker interface {
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
}

var (
	ErrUserNotFound = internal.NewNotFoundError("user not found", internal.ErrCodeAccountNotFound)
	ErrUserExists   = internal.NewConflictError("login or email already taken", internal.ErrCodeAccountExists)
	ErrSelfDelete   = internal.NewValidationError("you cannot delete your own account", internal.ErrCodeInvalidRequest)
)

type Service struct {
	repo        Repository
	sessions    SessionRevoker
	bcryptCost  int
	defaultRole string
	logger      *slog.Logger
}

func NewService(repo Repository, sessions SessionRevoker, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		sessions:    sessions,
		bcryptCost:  bcryptCost,
		defaultRole: auth.RoleStudent,
		logger:      logger,
	}
}

// Signup registers a student account.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*User, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByLoginOrEmail(ctx, dto.Login, dto.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	role, err := s.repo.GetRoleByName(ctx, s.defaultRole)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, internal.NewInternalError("default role is not seeded", fmt.Errorf("role %q missing", s.defaultRole))
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	dm := &accountDatamodel.Account{
		Login:        dto.Login,
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := s.repo.Create(ctx, dm); err != nil {
		s.logger.Error("failed to create account", "login", dto.Login, "error", err)
		return nil, err
	}

	s.logger.Info("account registered", "account_id", dm.ID, "login", dm.Login)
	return FromDataModelWithRole(dm, role.Name), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, ErrUserNotFound
	}

	roles, err := s.repo.RoleNames(ctx)
	if err != nil {
		return nil, err
	}
	return FromDataModelWithRole(dm, roles[dm.RoleID]), nil
}

// UpdateProfile applies the non-nil fields of dto. A password change drops
// every session of the account.
func (s *Service) UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, ErrUserNotFound
	}

	if dto.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*dto.Email))
		if email != dm.Email {
			clash, err := s.repo.GetByLoginOrEmail(ctx, "", email)
			if err != nil {
				return nil, err
			}
			if clash != nil && clash.ID != id {
				return nil, ErrUserExists
			}
			dm.Email = email
		}
	}
	if dto.FirstName != nil {
		dm.FirstName = strings.TrimSpace(*dto.FirstName)
	}
	if dto.LastName != nil {
		dm.LastName = strings.TrimSpace(*dto.LastName)
	}

	passwordChanged := false
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}
		dm.PasswordHash = hash
		passwordChanged = true
	}

	if err := s.repo.Update(ctx, dm); err != nil {
		s.logger.Error("failed to update account", "account_id", id, "error", err)
		return nil, err
	}

	if passwordChanged && s.sessions != nil {
		revoked, err := s.sessions.DeleteByAccount(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("revoke sessions after password change: %w", err)
		}
		s.logger.Info("password changed, sessions revoked", "account_id", id, "revoked_sessions", revoked)
	}

	return s.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err)
		return nil, err
	}
	roles, err := s.repo.RoleNames(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]*User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, FromDataModelWithRole(a, roles[a.RoleID]))
	}
	return users, nil
}

func (s *Service) Delete(ctx context.Context, id int64, actor auth.Principal) error {
	if id == actor.AccountID {
		return ErrSelfDelete
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete account", "account_id", id, "error", err)
		return err
	}
	if !removed {
		return ErrUserNotFound
	}

	s.logger.Info("account deleted", "account_id", id, "deleted_by", actor.AccountID)
	return nil
}
