package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/frahmantamala/online-school/pkg/logger"
	"github.com/frahmantamala/online-school/pkg/metrics"
)

// ForbiddenError is a deny decision; it names the caller's role.
type ForbiddenError struct {
	Role string
}

func (e *ForbiddenError) Error() string {
	return "Forbidden for role " + e.Role
}

// Authorizer answers role-permission questions from the grant table.
type Authorizer struct {
	grants GrantRepository
	logger *slog.Logger
}

func NewAuthorizer(grants GrantRepository, lg *slog.Logger) *Authorizer {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Authorizer{grants: grants, logger: lg}
}

// Authorize returns nil when the principal's role holds the permission,
// *ForbiddenError when it does not, and ErrUnknownPermission when the
// permission itself is not registered.
func (a *Authorizer) Authorize(ctx context.Context, p Principal, permission string) error {
	perm, err := a.grants.FindPermissionByName(ctx, permission)
	if err != nil {
		return fmt.Errorf("find permission: %w", err)
	}
	if perm == nil {
		a.logger.ErrorContext(ctx, "authorization requested for unregistered permission", "permission", permission)
		metrics.AuthorizationDecision("unknown")
		return fmt.Errorf("%w: %s", ErrUnknownPermission, permission)
	}

	granted, err := a.grants.HasGrant(ctx, p.RoleID, perm.ID)
	if err != nil {
		return fmt.Errorf("check grant: %w", err)
	}
	if granted {
		metrics.AuthorizationDecision("allow")
		return nil
	}

	role, err := a.grants.FindRoleByID(ctx, p.RoleID)
	if err != nil {
		return fmt.Errorf("find role: %w", err)
	}
	roleName := strconv.FormatInt(p.RoleID, 10)
	if role != nil {
		roleName = role.Name
	}

	metrics.AuthorizationDecision("deny")
	return &ForbiddenError{Role: roleName}
}

// Allowed folds a deny decision into false; other failures stay errors.
func (a *Authorizer) Allowed(ctx context.Context, p Principal, permission string) (bool, error) {
	err := a.Authorize(ctx, p, permission)
	if err == nil {
		return true, nil
	}
	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		return false, nil
	}
	return false, err
}
