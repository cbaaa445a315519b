package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/transport"
	"github.com/frahmantamala/online-school/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteAppError(w, internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequest))
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.WriteAppError(w, internal.ErrInvalidCredentials)
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := TokenFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	if err := h.Service.Logout(r.Context(), token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware validates the bearer token against the session whitelist
// and puts the resulting principal on the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.ErrMissingToken)
			return
		}

		tokenPrefix := token
		if len(token) > 20 {
			tokenPrefix = token[:20]
		}

		principal, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnauthorized):
				h.WriteAppError(w, internal.ErrInvalidToken)
			case errors.Is(err, ErrTokenExpired):
				h.WriteAppError(w, internal.ErrTokenExpired)
			default:
				h.Logger.Error("token validation failed", "error", err, "token_prefix", tokenPrefix)
				h.WriteAppError(w, internal.NewInternalError("internal server error", err))
			}
			return
		}

		ctx := ContextWithPrincipal(r.Context(), principal)
		ctx = ContextWithToken(ctx, token)
		ctx = logger.With(ctx, "account_id", principal.AccountID, "role_id", principal.RoleID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
