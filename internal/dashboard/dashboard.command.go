package dashboard

import (
	"context"
	"time"

	"github.com/itsatony/irrigador/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// IrrigationCommandIssuer starts a manual watering on a device
type IrrigationCommandIssuer interface {
	Trigger(ctx context.Context, deviceID string) (models.IrrigationAck, error)
}

// StubIssuer acknowledges every command without contacting a device.
type StubIssuer struct {
	Delay time.Duration
	Now   func() time.Time
}

func NewStubIssuer(delay time.Duration) *StubIssuer {
	return &StubIssuer{Delay: delay, Now: time.Now}
}

func (s *StubIssuer) Trigger(ctx context.Context, deviceID string) (models.IrrigationAck, error) {
	if err := sleep(ctx, s.Delay); err != nil {
		return models.IrrigationAck{}, err
	}

	ack := models.IrrigationAck{
		RequestID: nuts.NID("cmd", 12),
		DeviceID:  deviceID,
		Message:   "Manual watering command sent successfully (simulated)!",
		IssuedAt:  s.Now(),
	}
	nuts.L.Infof("[Irrigation] Simulated manual watering %s for device %s", ack.RequestID, deviceID)
	return ack, nil
}
