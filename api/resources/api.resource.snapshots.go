package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// SnapshotHandlers encapsulates the snapshot-related HTTP handlers
type SnapshotHandlers struct {
	service *service.Service
}

// @Summary Get the latest snapshot
// @Description Most recent sensor reading for a device
// @Tags snapshots
// @Produce json
// @Param deviceId path string true "Device ID"
// @Success 200 {object} models.SensorSnapshot
// @Failure 404 {string} string "no document found for device {deviceId}"
// @Failure 500 {string} string
// @Router /snapshot/{deviceId} [get]
func (h *SnapshotHandlers) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]
	requestID := nuts.NID("req", 12)
	w.Header().Set("X-Request-ID", requestID)

	snapshot, err := h.service.LatestSnapshot(r.Context(), deviceID)
	if err != nil {
		respondWithText(w, toAPIError(err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}

func toAPIError(err error) *errors.APIError {
	if apiErr, ok := errors.As(err); ok {
		return apiErr
	}
	return errors.NewInternalError(service.MsgBackendFailure, err)
}

// respondWithText writes only the public message; the internal cause is logged.
func respondWithText(w http.ResponseWriter, err *errors.APIError) {
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s [%s]", err.Error(), err.RequestID)
	} else {
		nuts.L.Infof("[API] %s [%s]", err.Error(), err.RequestID)
	}
	http.Error(w, err.Message, err.Code)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		nuts.L.Errorf("[API] Failed to encode response: %v", err)
	}
}
