package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itsatony/irrigador/api/middleware"
	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/models"
	"github.com/itsatony/irrigador/internal/monitoring"
	"github.com/itsatony/irrigador/internal/repository/memory"
	"github.com/itsatony/irrigador/internal/service"
	"github.com/stretchr/testify/assert"
)

type oneToken struct{}

func (oneToken) Lookup(ctx context.Context, token string) (string, error) {
	if token == "secret" {
		return "user-1", nil
	}
	return "", errors.NewAuthError("invalid token", nil)
}

func newTestRouter(required bool) *Router {
	repo := memory.NewSnapshotRepository()
	repo.Add(models.SensorSnapshot{DeviceID: "esp32", Timestamp: time.Now()})
	return NewRouter(service.New(repo), monitoring.NewService(), middleware.NewTokenMiddleware(oneToken{}, required))
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(false)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/snapshot/esp32", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/snapshot/other", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/snapshot/", "").Code)
}

func TestRouter_AuthGate(t *testing.T) {
	r := newTestRouter(true)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/snapshot/esp32", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/snapshot/esp32", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/snapshot/esp32", "secret").Code)
}
