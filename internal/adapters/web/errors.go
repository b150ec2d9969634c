package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"paddy-books/internal/ai"
	"paddy-books/internal/app"
	"paddy-books/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps an application error onto a status code. Anything
// unrecognised is logged and reported as a bare 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, r, err.Error(), "UNAUTHORIZED", http.StatusUnauthorized)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrInsufficientCoins):
		writeError(w, r, err.Error(), "INSUFFICIENT_COINS", http.StatusConflict)
	case errors.Is(err, core.ErrInsufficientStock):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	case errors.Is(err, core.ErrDuplicate):
		writeError(w, r, err.Error(), "DUPLICATE", http.StatusConflict)
	case core.IsValidationError(err):
		writeError(w, r, err.Error(), "INVALID_INPUT", http.StatusBadRequest)
	case errors.Is(err, ai.ErrNotConfigured):
		writeError(w, r, err.Error(), "AI_UNAVAILABLE", http.StatusServiceUnavailable)
	default:
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err,
			"request_id", requestIDFromContext(r.Context()))
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
