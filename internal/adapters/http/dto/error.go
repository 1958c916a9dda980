package dto

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
)

// ErrorResponse is the envelope for every failed response. Cause and Stack
// are only populated in development mode.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Cause   string   `json:"cause,omitempty"`
	Stack   string   `json:"stack,omitempty"`
}

// NewErrorResponse renders a normalized failure. Outside development mode a
// non-operational failure never reveals its message, cause or stack. In
// development mode its message is the cause's text when there is a cause.
func NewErrorResponse(e *domain.Error, devMode bool) ErrorResponse {
	resp := ErrorResponse{
		Success: false,
		Status:  e.Status(),
		Message: e.Message,
		Errors:  e.Details,
	}

	if !e.Operational && !devMode {
		resp.Message = MsgInternal
		resp.Errors = nil
	}

	if devMode {
		if e.Cause != nil {
			resp.Cause = e.Cause.Error()
			if !e.Operational {
				resp.Message = resp.Cause
			}
		}
		resp.Stack = e.Stack
	}

	return resp
}

// WriteErrorResponse writes the failure envelope for e with e's status code.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, e *domain.Error, devMode bool) {
	resp := NewErrorResponse(e, devMode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}
