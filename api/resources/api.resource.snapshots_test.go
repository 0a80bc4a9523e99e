package resources

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/models"
	"github.com/itsatony/irrigador/internal/monitoring"
	"github.com/itsatony/irrigador/internal/repository/memory"
	"github.com/itsatony/irrigador/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenRepo struct{}

func (brokenRepo) GetLatest(ctx context.Context, deviceID string) (*models.SensorSnapshot, error) {
	return nil, errors.NewDatabaseError("query failed", stderrors.New("pq: password authentication failed for user \"irrigador\""))
}

// unreachableRepo is a connection-backed store whose connection is gone
type unreachableRepo struct{ brokenRepo }

func (unreachableRepo) Ping(ctx context.Context) error {
	return errors.NewDatabaseError("failed to ping database", stderrors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))
}

func ptr[T any](v T) *T { return &v }

func getSnapshot(h *SnapshotHandlers, deviceID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/snapshot/"+deviceID, nil)
	req = mux.SetURLVars(req, map[string]string{"deviceId": deviceID})
	rec := httptest.NewRecorder()
	h.GetLatestSnapshot(rec, req)
	return rec
}

func TestGetLatestSnapshot_OK(t *testing.T) {
	repo := memory.NewSnapshotRepository()
	ts := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	repo.Add(models.SensorSnapshot{DeviceID: "esp32", Timestamp: ts.Add(-time.Hour), SoilHumidity: ptr(50.0)})
	repo.Add(models.SensorSnapshot{
		DeviceID:      "esp32",
		Timestamp:     ts,
		SoilHumidity:  ptr(72.0),
		Temperature:   ptr(26.0),
		AirHumidity:   ptr(85.0),
		GeneralStatus: ptr("ok"),
		LastWatering:  ptr(ts.Add(-3 * time.Hour)),
	})

	rec := getSnapshot(&SnapshotHandlers{service: service.New(repo)}, "esp32")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 6)
	assert.Equal(t, 72.0, body["soilHumidity"])
	assert.Equal(t, 26.0, body["temperature"])
	assert.Equal(t, 85.0, body["airHumidity"])
	assert.Equal(t, "ok", body["generalStatus"])
	assert.Equal(t, "2026-10-18T12:00:00Z", body["timestamp"])
	assert.Equal(t, "2026-10-18T09:00:00Z", body["lastWatering"])
}

func TestGetLatestSnapshot_AbsentFieldsAreNull(t *testing.T) {
	repo := memory.NewSnapshotRepository()
	repo.Add(models.SensorSnapshot{DeviceID: "esp32", Timestamp: time.Now()})

	rec := getSnapshot(&SnapshotHandlers{service: service.New(repo)}, "esp32")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "soilHumidity")
	assert.Nil(t, body["soilHumidity"])
}

func TestGetLatestSnapshot_NotFound(t *testing.T) {
	rec := getSnapshot(&SnapshotHandlers{service: service.New(memory.NewSnapshotRepository())}, "esp32-horta")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "esp32-horta")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestGetLatestSnapshot_BackendFailure(t *testing.T) {
	rec := getSnapshot(&SnapshotHandlers{service: service.New(brokenRepo{})}, "esp32")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), service.MsgBackendFailure)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGetLatestSnapshot_BlankDevice(t *testing.T) {
	rec := getSnapshot(&SnapshotHandlers{service: service.New(memory.NewSnapshotRepository())}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	mon := monitoring.NewService()
	mon.RecordEvent(service.EventSnapshotServed, nil)
	h := &SystemHandlers{service: service.New(memory.NewSnapshotRepository()), monitoring: mon}

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = httptest.NewRecorder()
	h.Metrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Events map[string]int64 `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Events[service.EventSnapshotServed])
}

func TestHealthCheck_StoreDown(t *testing.T) {
	h := &SystemHandlers{service: service.New(unreachableRepo{}), monitoring: monitoring.NewService()}

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"down"`)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
