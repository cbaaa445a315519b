package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/transport"
)

type PermissionAuthorizer interface {
	Authorize(ctx context.Context, p Principal, permission string) error
}

// RBACAuthorization guards routes with a required permission. It must run
// after Handler.AuthMiddleware has put the principal on the context.
type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, permission string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			ra.Logger.Warn("authorization check failed: principal not found in context")
			ra.WriteAppError(w, internal.ErrMissingToken)
			return
		}

		err := ra.authorizer.Authorize(r.Context(), principal, permission)
		if err == nil {
			next.ServeHTTP(w, r)
			return
		}

		var forbidden *ForbiddenError
		switch {
		case errors.As(err, &forbidden):
			ra.Logger.WarnContext(r.Context(), "access denied",
				"account_id", principal.AccountID,
				"role", forbidden.Role,
				"required_permission", permission)
			ra.WriteAppError(w, internal.NewForbiddenError(forbidden.Error(), internal.ErrCodeForbiddenRole))
		case errors.Is(err, ErrUnknownPermission):
			ra.WriteAppError(w, &internal.AppError{
				Type:       internal.ErrorTypeInternal,
				Code:       internal.ErrCodeUnknownPermission,
				Message:    "Internal server error",
				StatusCode: http.StatusInternalServerError,
				Cause:      err,
			})
		default:
			ra.Logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "account_id", principal.AccountID, "permission", permission)
			ra.WriteAppError(w, internal.NewInternalError("Internal server error", err))
		}
	}
}

func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, permission)
	}
}
