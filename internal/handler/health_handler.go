package handler

import (
	"net/http"

	"rsvp-relay/internal/container"
	"rsvp-relay/pkg/logger"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		logger: container.GetLogger(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

// Check handles GET /healthz. It does not touch the relay or Redis.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested")
	respondJSON(w, http.StatusOK, HealthResponse{OK: true})
}
