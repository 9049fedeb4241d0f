package api

import (
	"net/http"
	"time"

	"github.com/narrate/narrate/internal/api/respond"
	"github.com/narrate/narrate/internal/health"
)

// HealthHandler serves liveness and dependency probes.
type HealthHandler struct {
	isHealthy func() bool
	store     health.HealthPinger
}

// NewHealthHandler wires the aggregated service flag and the store pinger.
// A nil isHealthy reports healthy; a nil store makes the db probe a 200 no-op.
func NewHealthHandler(isHealthy func() bool, store health.HealthPinger) *HealthHandler {
	if isHealthy == nil {
		isHealthy = func() bool { return true }
	}
	return &HealthHandler{isHealthy: isHealthy, store: store}
}

// CheckHealth handles GET /api/health.
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if h.isHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckStorageHealth handles GET /api/health/db with a live store ping.
func (h *HealthHandler) CheckStorageHealth(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.HealthPing(r.Context()); err != nil {
			respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}
