package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
)

// statusResponse is the envelope every mutating tool returns: "ok" plus the
// relevant payload, or "error" plus a human-readable message.
type statusResponse struct {
	Status  string `json:"status"`
	ID      int64  `json:"id,omitempty"`
	Count   *int64 `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, resp statusResponse) {
	resp.Status = "ok"
	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, statusResponse{Status: "error", Message: message})
}

// errorCode maps the failure taxonomy onto HTTP statuses: validation errors
// never reached the store, not-found is distinct from a store fault, and
// anything else is a store fault that already rolled back.
func errorCode(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrEmptyPatch),
		errors.Is(err, core.ErrMissingDate),
		errors.Is(err, core.ErrBadDate),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrUnknownKind):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
