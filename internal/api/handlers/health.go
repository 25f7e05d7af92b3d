package handlers

import (
	"context"
	"net/http"
	"time"

	"fleet-transition-service/internal/platform/obs"

	"go.uber.org/zap"
)

// HealthHandler reports liveness and, when Ping is set, storage readiness.
type HealthHandler struct {
	Ping func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			obs.FromContext(r.Context()).Warn("health check: storage unavailable", zap.Error(err))
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "storage": "unavailable"})
			return
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
