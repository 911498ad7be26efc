package handler

import (
	"context"
	"net/http"
	"time"

	"candidate-registry/internal/model"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	store   healthChecker
	timeout time.Duration
}

func NewHealthHandler(store healthChecker, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{store: store, timeout: timeout}
}

// Live reports that the process is serving. It never touches the store.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.StatusResponse{Status: "ok"})
}

// Ready reports whether the store answers a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, model.APIError{Code: "UNAVAILABLE", Message: "Database unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, model.StatusResponse{Status: "ok"})
}
