package ban

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/auth"
	"github.com/frahmantamala/online-school/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     svc,
	}
}

func (h *Handler) Ban(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	targetID, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	// self-ban is answered before the body is read
	var dto BanRequestDTO
	if targetID != actor.AccountID {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteAppError(w, internal.NewValidationError("invalid request body", internal.ErrCodeInvalidRequest))
			return
		}
		if appErr := dto.Validate(); appErr != nil {
			h.WriteAppError(w, appErr)
			return
		}
	}

	result, err := h.Service.Ban(r.Context(), targetID, dto.Reason, actor)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	targetID, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.Unban(r.Context(), targetID, actor)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result.ToResponse())
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		h.WriteAppError(w, internal.NewNotFoundError("account not found", internal.ErrCodeAccountNotFound))
	case errors.Is(err, ErrReasonRequired):
		h.WriteAppError(w, internal.NewValidationFieldError("reason", "reason is required", internal.ErrCodeValidationFailed))
	default:
		h.HandleServiceError(w, err)
	}
}
