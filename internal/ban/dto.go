package ban

import (
	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/core/common/validation"
)

type BanRequestDTO struct {
	Reason string `json:"reason"`
}

func (d BanRequestDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("reason", d.Reason).Required().MaxLength(500)
	return v.Validate()
}

// ResultResponse reports either the applied change in Result or the reason
// nothing changed in Error. Both are sent with 200.
type ResultResponse struct {
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (r Result) ToResponse() ResultResponse {
	switch r.Status {
	case StatusBanned:
		return ResultResponse{Result: string(StatusBanned)}
	case StatusUnbanned:
		return ResultResponse{Result: string(StatusUnbanned)}
	case StatusSelfBan:
		return ResultResponse{Error: MessageSelfBan}
	case StatusAlreadyBanned:
		return ResultResponse{Error: MessageAlreadyBanned, Reason: r.Reason}
	default:
		return ResultResponse{Error: MessageWasNotBanned}
	}
}
