package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/skyward/accountd/internal/apperr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func setNoCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	setNoCacheHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteNoContent writes an empty response with the given status.
func WriteNoContent(w http.ResponseWriter, status int) {
	setNoCacheHeaders(w)
	w.WriteHeader(status)
}

// WriteError maps a classified service error to an HTTP status.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		msg = err.Error()
	case apperr.KindConflict:
		status = http.StatusConflict
		msg = err.Error()
	case apperr.KindNotFound:
		status = http.StatusNotFound
		msg = err.Error()
	case apperr.KindAuthFormat:
		status = http.StatusUnauthorized
		msg = err.Error()
	case apperr.KindInvalidCredentials:
		status = http.StatusUnauthorized
		msg = err.Error()
	case apperr.KindForbidden:
		status = http.StatusForbidden
		msg = err.Error()
	default:
		slog.Error("request failed", "error", err)
	}

	WriteJSON(w, status, errorResponse{Error: msg})
}
