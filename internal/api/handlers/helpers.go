package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleet-transition-service/internal/domain"
	"fleet-transition-service/internal/platform/obs"
	"fleet-transition-service/internal/ports"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.FromContext(r.Context()).Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMissingPrice):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingReference), errors.Is(err, domain.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError logs err and answers with its mapped status. Client
// errors echo the message; server errors stay opaque.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	logger := obs.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", zap.Error(err))
		writeError(w, r, status, "internal server error")
		return
	}
	logger.Info(op+" rejected", zap.Int("status", status), zap.Error(err))
	writeError(w, r, status, err.Error())
}
