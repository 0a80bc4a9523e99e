package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsatony/irrigador/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Latest(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"timestamp":"2026-10-18T12:00:00Z","soilHumidity":72,"temperature":null,"airHumidity":85,"generalStatus":"ok","lastWatering":null}`))
	}))
	defer srv.Close()

	reading, err := NewHTTPSource(srv.URL+"/", time.Second).Latest(context.Background(), "esp32", "tok")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/snapshot/esp32", gotPath)
	assert.Equal(t, "2026-10-18T12:00:00Z", reading.Timestamp)
	require.NotNil(t, reading.SoilHumidity)
	assert.Equal(t, 72.0, *reading.SoilHumidity)
	assert.Nil(t, reading.Temperature)
	assert.Nil(t, reading.LastWatering)
}

func TestHTTPSource_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusUnauthorized, errors.IsUnauthorized},
		{http.StatusForbidden, errors.IsUnauthorized},
		{http.StatusNotFound, errors.IsNotFound},
		{http.StatusBadRequest, errors.IsValidation},
		{http.StatusInternalServerError, func(err error) bool {
			apiErr, ok := errors.As(err)
			return ok && apiErr.Type == errors.ErrorTypeInternal && apiErr.Code == http.StatusInternalServerError
		}},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no document found for device esp32", tt.status)
			}))
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, time.Second).Latest(context.Background(), "esp32", "tok")
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, time.Second).Latest(context.Background(), "esp32", "tok")
	assert.True(t, errors.IsNetwork(err))
}

func TestHTTPSource_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"soilHumidity":`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second).Latest(context.Background(), "esp32", "tok")
	require.Error(t, err)
	assert.False(t, errors.IsNetwork(err))
}

func TestFixtureSource(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 42, 17, 0, time.UTC)
	src := &FixtureSource{Now: func() time.Time { return now }}

	reading, err := src.Latest(context.Background(), "esp32", "tok")
	require.NoError(t, err)

	assert.Equal(t, FixtureStatus, *reading.GeneralStatus)
	assert.Equal(t, 72.0, *reading.SoilHumidity)
	assert.Equal(t, 26.0, *reading.Temperature)
	assert.Equal(t, 85.0, *reading.AirHumidity)
	assert.Equal(t, "2026-10-18T12:00:00Z", *reading.LastWatering)

	fields := fixedFormatter(now).Format(*reading)
	assert.Equal(t, "Today, 12:00", fields.LastWatering)
	assert.Equal(t, "Today, 15:42", fields.LastReading)
}

func TestFixtureSource_HonorsContext(t *testing.T) {
	src := NewFixtureSource(time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := src.Latest(ctx, "esp32", "tok")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFileSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileSession(path)

	assert.Empty(t, s.Token(), "missing file means no session")

	require.NoError(t, os.WriteFile(path, []byte(`{"authToken":"tok-1","userId":"user-1"}`), 0o600))
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "user-1", s.UserID())

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Clear(), "clearing twice is fine")
}

func TestFileSession_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	assert.Empty(t, NewFileSession(path).Token())
}

func TestStubIssuer(t *testing.T) {
	issuedAt := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	issuer := &StubIssuer{Now: func() time.Time { return issuedAt }}

	ack, err := issuer.Trigger(context.Background(), "esp32")
	require.NoError(t, err)
	assert.Equal(t, "esp32", ack.DeviceID)
	assert.NotEmpty(t, ack.RequestID)
	assert.NotEmpty(t, ack.Message)
	assert.Equal(t, issuedAt, ack.IssuedAt)
}

func TestLines(t *testing.T) {
	lines := Lines("esp32", StateIdle, Fields{}, "")
	assert.Contains(t, lines, "Soil humidity:  --")

	lines = Lines("esp32", StateLoaded, Fields{SoilHumidity: "72%"}, "hello")
	assert.Contains(t, lines, "Soil humidity:  72%")
	assert.Contains(t, lines[len(lines)-1], "[w] water")
}
