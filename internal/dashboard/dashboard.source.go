package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/itsatony/irrigador/internal/errors"
)

// Reading is the snapshot as the dashboard receives it. Timestamps stay raw
// so that an unreadable value renders as N/A instead of failing the load.
type Reading struct {
	Timestamp     string   `json:"timestamp"`
	SoilHumidity  *float64 `json:"soilHumidity"`
	Temperature   *float64 `json:"temperature"`
	AirHumidity   *float64 `json:"airHumidity"`
	GeneralStatus *string  `json:"generalStatus"`
	LastWatering  *string  `json:"lastWatering"`
}

// DataSource produces the latest reading for a device
type DataSource interface {
	Latest(ctx context.Context, deviceID, token string) (*Reading, error)
}

// HTTPSource fetches readings from the snapshot endpoint
type HTTPSource struct {
	client *resty.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// Latest calls GET /snapshot/{deviceId}. Non-200 answers map onto the error
// taxonomy via errors.FromStatus; transport failures are network errors.
func (s *HTTPSource) Latest(ctx context.Context, deviceID, token string) (*Reading, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("deviceId", deviceID).
		Get("/snapshot/{deviceId}")
	if err != nil {
		return nil, errors.NewNetworkError("snapshot request failed", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, errors.FromStatus(resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	var reading Reading
	if err := json.Unmarshal(resp.Body(), &reading); err != nil {
		return nil, errors.NewInternalError("malformed snapshot response", err)
	}
	return &reading, nil
}

const FixtureStatus = "Your garden is healthy and productive!"

// FixtureSource synthesizes a plausible reading after a simulated network delay.
type FixtureSource struct {
	Delay time.Duration
	Now   func() time.Time
}

func NewFixtureSource(delay time.Duration) *FixtureSource {
	return &FixtureSource{Delay: delay, Now: time.Now}
}

func (s *FixtureSource) Latest(ctx context.Context, deviceID, token string) (*Reading, error) {
	if err := sleep(ctx, s.Delay); err != nil {
		return nil, err
	}

	now := s.Now()
	watered := time.Date(now.Year(), now.Month(), now.Day(), now.Hour()-3, 0, 0, 0, now.Location())

	soil, temp, air := 72.0, 26.0, 85.0
	status := FixtureStatus
	lastWatering := watered.Format(time.RFC3339)

	return &Reading{
		Timestamp:     now.Format(time.RFC3339Nano),
		SoilHumidity:  &soil,
		Temperature:   &temp,
		AirHumidity:   &air,
		GeneralStatus: &status,
		LastWatering:  &lastWatering,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
