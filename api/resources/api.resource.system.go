package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/itsatony/irrigador/internal/monitoring"
	"github.com/itsatony/irrigador/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

const healthCheckTimeout = 2 * time.Second

// SystemHandlers serves health and metrics
type SystemHandlers struct {
	service    *service.Service
	monitoring *monitoring.Service
}

// HealthCheck reports the version and whether the snapshot store answers.
// An unreachable store turns the response into a 503.
func (h *SystemHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		nuts.L.Warnf("[Health] Snapshot store unreachable: %v", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "down",
			"version": nuts.GetVersion(),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": nuts.GetVersion(),
	})
}

// Metrics returns the monitoring event counters
func (h *SystemHandlers) Metrics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events":         h.monitoring.Counts(),
		"uptime_seconds": int64(h.monitoring.Uptime().Seconds()),
	})
}
